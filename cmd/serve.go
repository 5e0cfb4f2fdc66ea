package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/airq-cli/internal/metrics"
	"github.com/KaramelBytes/airq-cli/internal/server"
	"github.com/KaramelBytes/airq-cli/internal/session"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload and dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no configuration loaded; fix the config file or run 'airq config show'")
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		parse, err := configOptions()
		if err != nil {
			return err
		}
		log := newLogger()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := session.NewStore(cfg.SessionTTL())
		srv := server.New(server.Options{
			MaxUploadBytes: cfg.MaxUploadBytes(),
			PreviewRows:    cfg.PreviewRows,
			RequestTimeout: cfg.RequestTimeout(),
			Parse:          parse,
		}, store, metrics.New(), log)

		log.Info("starting airq",
			slog.String("addr", addr),
			slog.Int("max_upload_mb", cfg.MaxUploadMB),
			slog.Duration("session_ttl", cfg.SessionTTL()),
		)
		fmt.Printf("✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
