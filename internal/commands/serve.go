package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/server"
	"github.com/mmynk/checkbook/internal/storage/sqlite"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the checkbook API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&a.cfg.Port, "port", a.cfg.Port, "HTTP port")
	cmd.Flags().StringVar(&a.cfg.StaticPath, "static", a.cfg.StaticPath, "directory of front-end files to serve")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer records.Close()
	slog.Info("Storage initialized", "database", a.cfg.DBPath)

	handler, err := server.NewHandler(ledger.New(records), newExtractor(ctx, a), server.Options{
		StaticPath:     a.cfg.StaticPath,
		AllowedOrigins: a.cfg.AllowedOrigins,
		// Base64 inflates the image by a third; leave room for the envelope.
		MaxRequestBytes: a.cfg.MaxReceiptBytes*4/3 + 4096,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      a.cfg.ScanTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	})

	return g.Wait()
}
