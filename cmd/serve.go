package cmd

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

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/logging"
	"github.com/user/notecards/internal/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content procedures over HTTP",
	Long: "Run the RPC server on server.addr. Procedures are served at /rpc/{procedure}; " +
		"/health and /ready are the liveness and readiness probes.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(cfg.Log)

		store, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		procs := rpc.NewProcedures(store, access.ReadOnly(cfg.PublicMode), logger, cfg.Server.RequestTimeout)
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           rpc.Routes(procs, store, logger, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				slog.String("addr", cfg.Server.Addr),
				slog.Bool("public_mode", cfg.PublicMode),
				slog.String("store", cfg.Store.Driver),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().Bool("public", false, "Public mode: reject create, update and delete")
	v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	v.BindPFlag("public_mode", serveCmd.Flags().Lookup("public"))
	rootCmd.AddCommand(serveCmd)
}
