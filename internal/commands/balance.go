package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/checkbook/internal/calculator"
	"github.com/mmynk/checkbook/internal/ledger"
)

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the family balance with per-member and per-category totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				view, err := store.Current(cmd.Context())
				if err != nil {
					return userError(err)
				}
				account := view.Account
				summary := calculator.Summarize(account.Transactions)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s balance: %s\n", account.Name, calculator.FormatCurrency(summary.Balance))
				fmt.Fprintf(out, "Income %s, expenses %s, %d transactions\n\n",
					calculator.FormatCurrency(summary.Income), calculator.FormatCurrency(summary.Expenses), summary.Count)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MEMBER\tINCOME\tEXPENSES\tNET")
				for _, mt := range calculator.MemberTotals(account) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mt.MemberName,
						calculator.FormatCurrency(mt.Income),
						calculator.FormatCurrency(mt.Expenses),
						calculator.FormatCurrency(mt.Net))
				}
				if err := w.Flush(); err != nil {
					return err
				}

				categories := calculator.CategoryTotals(account.Transactions)
				if len(categories) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT")
				for _, ct := range categories {
					fmt.Fprintf(w, "%s\t%s\t%d\n", ct.Category, calculator.FormatCurrency(ct.Total), ct.Count)
				}
				return w.Flush()
			})
		},
	}
}
