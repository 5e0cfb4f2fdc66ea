package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/airq-cli/internal/config"
	"github.com/KaramelBytes/airq-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "airq",
	Short: "airq: validate, clean and summarize indoor air-quality sensor logs",
	Long: `airq ingests CSV or XLSX exports from indoor air-quality sensors (date, time,
temperature, humidity, CO2), validates and cleans them, and reports summary
statistics with a GOOD/MODERATE/POOR air-quality tier. Results can be printed,
exported, or served over HTTP with charts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.airq/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	if debug {
		cfg.LogLevel = "debug"
	}
}

// newLogger builds the process logger from config. Without a loaded config it
// logs at info level (debug with --debug) to stderr.
func newLogger() *slog.Logger {
	level, format := slog.LevelInfo, "text"
	if cfg != nil {
		if l, err := logging.ParseLevel(cfg.LogLevel); err == nil {
			level = l
		}
		format = cfg.LogFormat
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(os.Stderr, level, format)
}
