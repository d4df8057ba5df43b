package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/checkbook/internal/calculator"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/receipt"
)

func newScanCommand(a *app) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Read a receipt photo and pre-fill an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading receipt image: %w", err)
			}

			return a.withLedger(func(store *ledger.Store) error {
				if add {
					if _, err := store.Current(cmd.Context()); err != nil {
						return userError(err)
					}
				}

				r, err := newExtractor(cmd.Context(), a).Extract(cmd.Context(), image)
				if err != nil {
					return userError(err)
				}

				draft := ledger.DraftFromReceipt(r)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Merchant:    %s\n", r.Merchant)
				fmt.Fprintf(out, "Total:       %s\n", calculator.FormatCurrency(r.Total))
				fmt.Fprintf(out, "Category:    %s\n", draft.Category)
				fmt.Fprintf(out, "Description: %s\n", draft.Description)

				if !add {
					return nil
				}
				tx, _, err := store.AddDraft(cmd.Context(), draft)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(out, "Recorded %s %s (%s)\n",
					calculator.FormatEntryAmount(tx.Amount), tx.Description, tx.Category)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "record the scanned receipt as an expense")
	return cmd
}

// newExtractor builds the configured receipt extractor. Without an API key
// every scan fails with the generic scan error.
func newExtractor(ctx context.Context, a *app) receipt.Extractor {
	gemini, err := receipt.NewGemini(ctx, a.cfg.Receipt())
	if err != nil {
		if errors.Is(err, receipt.ErrMissingAPIKey) {
			slog.Warn("Receipt scanning disabled: set GEMINI_API_KEY to enable it")
		} else {
			slog.Error("Failed to create receipt extractor", "error", err)
		}
		return receipt.Unconfigured{}
	}
	return receipt.Serialize(gemini)
}
