package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexiusacademia/gocol/internal/server"
	"github.com/alexiusacademia/gocol/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the column checks as a JSON HTTP API",
	Long: `Start an HTTP server exposing the load, column and catalog checks.

Endpoints:
  GET  /api/health             Status and version
  POST /api/load/factored      Factored axial load of a set of actions
  POST /api/column/check       Two-axis buckling check of a column (JSON)
  POST /api/catalog/evaluate   Batch check of an uploaded catalog (multipart)
  GET  /api/runs               Saved catalog evaluations
  GET  /api/runs/{id}          One saved evaluation with its results

Requests are rate limited per client address (server.rate_limit and
server.burst in the config file).

Examples:
  gocol serve
  gocol serve --addr 127.0.0.1:9000 --no-history`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, defaults to server.addr")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Do not store catalog evaluations")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	opts := server.Options{
		Logger:      slog.Default(),
		Policy:      cfg.Policy(),
		Workers:     cfg.Batch.Workers,
		YieldStress: cfg.Design.YieldStress,
		RateLimit:   cfg.Server.RateLimit,
		Burst:       cfg.Server.Burst,
	}
	if !serveNoHistory {
		s, err := store.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		opts.Store = s
		slog.Info("run history enabled", "path", cfg.Database.Path)
	}

	return server.New(opts).ListenAndServe(ctx, addr)
}
