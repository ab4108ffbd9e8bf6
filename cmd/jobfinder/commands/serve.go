// ABOUTME: Serve command starts the HTTP front door
// ABOUTME: Exposes the JSON API with graceful shutdown on SIGINT/SIGTERM
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/web"
	"github.com/joho/godotenv"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Exposes search, document management, and reindexing over a JSON API.
Callers pass their role in the X-Auth-Role header; requests without a
recognized role run as guest.

Examples:
  jobfinder serve
  jobfinder serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from JOBFINDER_HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewServer(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	if !quiet {
		log.Printf("JobFinder HTTP server listening on %s", cfg.HTTPAddr)
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining connections...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
