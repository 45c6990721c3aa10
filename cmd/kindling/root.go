package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kindling-sh/kindling/internal/adapters/logging"
	"github.com/kindling-sh/kindling/internal/domain/config"
	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// Global flags.
var (
	flagClusterName   string
	flagDaemonTimeout time.Duration
	flagSkipAddons    bool
	flagVerbose       bool
	flagJSONLog       bool
	flagKubeconfig    string
)

var rootCmd = &cobra.Command{
	Use:   "kindling",
	Short: "Provision a kind-based Kubernetes dev environment",
	Long: `Kindling turns a fresh development container into a working local
Kubernetes environment: it installs Docker, kubectl and kind, starts
the Docker daemon, creates a two-node kind cluster, and applies the
metrics-server and ingress-nginx add-ons.

Every step is idempotent. Re-running kindling on a provisioned host
changes nothing.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagClusterName, "cluster-name", "",
		"kind cluster name (default: $KIND_CLUSTER_NAME or codespace-kind)")
	rootCmd.PersistentFlags().DurationVar(&flagDaemonTimeout, "daemon-timeout", 0,
		"how long to wait for the Docker daemon (default: $KINDLING_DAEMON_TIMEOUT or 60s)")
	rootCmd.PersistentFlags().BoolVar(&flagSkipAddons, "skip-addons", false,
		"skip the metrics-server and ingress-nginx add-ons")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&flagKubeconfig, "kubeconfig", "",
		"kubeconfig path (default: standard location)")
}

// loadConfig resolves configuration from environment and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	return cfg.
		WithClusterName(flagClusterName).
		WithDaemonTimeout(flagDaemonTimeout).
		WithInstallAddons(cfg.InstallAddons() && !flagSkipAddons).
		WithVerbose(flagVerbose || cfg.Verbose()).
		WithJSONLog(flagJSONLog || cfg.JSONLog()).
		WithKubeconfig(flagKubeconfig), nil
}

// newLogger builds the console logger from config.
func newLogger(cfg config.Config) ports.Logger {
	opts := []logging.ConsoleLoggerOption{
		logging.WithJSONFormat(cfg.JSONLog()),
	}
	if cfg.Verbose() {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	return logging.NewConsoleLogger(opts...)
}

// formatError renders provisioning errors with their code and
// suggestion; anything else falls back to the plain message.
func formatError(err error) string {
	var stepErr *step.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Format()
	}
	return err.Error()
}

func printError(err error) {
	printErrorTo(os.Stderr, err)
}

func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
