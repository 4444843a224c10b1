package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"reelmatch/internal/apihandlers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveAddr string // Listen address
	servePort int    // Listen port
	serveDev  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run ReelMatch as an HTTP API server",
	Long: `Starts an HTTP server exposing recommendations, the catalog, saved
recommendations, share links and query history as a JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config

		addr := cfg.Server.Address
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		if !serveDev {
			gin.SetMode(gin.ReleaseMode)
		}
		router := apihandlers.NewRouter(appInstance)

		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", addr, port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting ReelMatch API server on http://%s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to run API server: %w", err)
			}
		case <-ctx.Done():
			log.Info("Shutdown signal received. Stopping API server...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info("ReelMatch API server stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (defaults to server.address)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to server.port)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Run gin in debug mode")
}
