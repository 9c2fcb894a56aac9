package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"suiworld-swap/config"
	"suiworld-swap/pkg/api"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet and swap HTTP API",
	Long: `Serve the wallet summary, deposit address, quote and execute endpoints.

Examples:
  suiworld-swap serve
  suiworld-swap serve --listen 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	cfg := config.Get()
	svc := mustServices(ctx)
	defer svc.Close()

	addr := listenAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	server := api.New(api.Config{
		Swapper:            svc.engine,
		Treasury:           svc.treasury,
		QuoteTTL:           cfg.QuoteTTL,
		DefaultSlippageBps: cfg.DefaultSlippageBps,
		Logger:             logger,
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			exitWith(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("http server shutdown failed")
		}
	}
}
