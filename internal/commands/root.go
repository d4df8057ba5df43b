// Package commands implements the checkbook command line.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/checkbook/internal/config"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/receipt"
	"github.com/mmynk/checkbook/internal/storage/sqlite"
	"github.com/mmynk/checkbook/pkg/logging"
)

// app is the state shared by every subcommand.
type app struct {
	cfg      *config.Config
	dbPath   string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "checkbook",
		Short: "Shared household checkbook",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.DBPath = a.dbPath
			a.cfg.LogLevel = strings.ToLower(a.logLevel)
			logging.Setup(a.cfg.LogLevel)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", a.cfg.DBPath, "path to the checkbook database")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCommand(a),
		newFamilyCommand(a),
		newTxCommand(a),
		newBalanceCommand(a),
		newScanCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
	)

	return rootCmd
}

// withLedger opens the record store for the duration of fn.
func (a *app) withLedger(fn func(store *ledger.Store) error) error {
	records, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer records.Close()

	return fn(ledger.New(records))
}

// userError replaces a ledger or scan error with the text meant for people.
// The cause is logged at debug level.
func userError(err error) error {
	if err == nil {
		return nil
	}
	slog.Debug("Command failed", "error", err)

	var scanErr *receipt.ScanError
	if errors.As(err, &scanErr) {
		return scanErr
	}
	return errors.New(ledger.UserMessage(err))
}
