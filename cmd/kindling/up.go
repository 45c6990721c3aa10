package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindling-sh/kindling/internal/app"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision the full environment",
	Long: `Up runs every provisioning step in dependency order: apt
prerequisites, Docker engine and daemon, kubectl, kind, the local
cluster, and add-ons. Steps whose outcome is already in place are
skipped, so re-running up on a provisioned host is a no-op.`,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := app.DefaultDeps(cfg)
	if err != nil {
		return err
	}

	k := app.New(cfg, newLogger(cfg), deps)
	report, err := k.Up(cmd.Context())
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)

	if !report.Succeeded() {
		failure := report.FirstFailure()
		return fmt.Errorf("provisioning failed at %s: %s",
			failure.StepID(), formatError(failure.Err()))
	}
	return nil
}
