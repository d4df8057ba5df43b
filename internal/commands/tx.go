package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/checkbook/internal/calculator"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/models"
)

func newTxCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions",
	}
	cmd.AddCommand(newTxAddCommand(a), newTxListCommand(a))
	return cmd
}

func newTxAddCommand(a *app) *cobra.Command {
	var description, amount, category, member string
	var income bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense (or income with --income)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := models.ParseCategory(category)
			if err != nil {
				return fmt.Errorf("%w (choose from %v)", err, models.CategoryNames())
			}

			return a.withLedger(func(store *ledger.Store) error {
				draft := ledger.Draft{
					Description: description,
					Amount:      amount,
					Category:    parsed,
					Expense:     !income,
				}
				if member != "" {
					view, err := store.Current(cmd.Context())
					if err != nil {
						return userError(err)
					}
					draft.MemberID = member
					if m, ok := view.Account.MemberByEmail(member); ok {
						draft.MemberID = m.ID
					}
				}

				tx, _, err := store.AddDraft(cmd.Context(), draft)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s (%s)\n",
					calculator.FormatEntryAmount(tx.Amount), tx.Description, tx.Category)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what it was for (required)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 54.20 (required)")
	cmd.Flags().StringVarP(&category, "category", "c", string(models.CategoryOther), "category")
	cmd.Flags().StringVarP(&member, "member", "m", "", "member email or ID (default: you)")
	cmd.Flags().BoolVar(&income, "income", false, "record income instead of an expense")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTxListCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				view, err := store.Current(cmd.Context())
				if err != nil {
					return userError(err)
				}

				txs := view.Account.Transactions
				if len(txs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transactions yet.")
					return nil
				}
				if limit > 0 && len(txs) > limit {
					txs = txs[:limit]
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(w, "DATE\tMEMBER\tCATEGORY\tDESCRIPTION\tAMOUNT\t")
				for _, tx := range txs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
						calculator.FormatEntryDate(tx.Date),
						view.Account.MemberName(tx.MemberID),
						tx.Category,
						tx.Description,
						calculator.FormatEntryAmount(tx.Amount),
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n transactions")
	return cmd
}
