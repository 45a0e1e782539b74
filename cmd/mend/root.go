package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mend-ai/mend/internal/config"
)

// Global flags
var (
	configFile string
	logLevel   string
	logFormat  string
	verbose    bool
)

// cfg is the configuration loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mend",
	Short: "mend - resilient completions and JSON recovery for local models",
	Long: `mend wraps local language models with completion resilience:
timeout and retry handling, continuation prompting for truncated output,
and best-effort recovery of structured JSON from malformed responses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and configures logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	loaded, err := config.NewLoader().LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	// Flags override file and environment settings.
	if cmd.Flags().Changed("log-level") || rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") || rootCmd.PersistentFlags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	slog.SetDefault(newLogger(cfg.Log))
	return nil
}

// newLogger builds the process logger from the log settings.
func newLogger(settings config.LogSettings) *slog.Logger {
	level := slog.LevelInfo
	switch settings.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if settings.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func verboseEnabled() bool {
	return verbose
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: mend.yaml lookup skipped when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
