package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kindling-sh/kindling/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what up would do without changing anything",
	Long: `Plan probes every provisioning step and reports which are
already satisfied and which would run. No step is applied.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := app.DefaultDeps(cfg)
	if err != nil {
		return err
	}

	k := app.New(cfg, newLogger(cfg), deps)
	plan, err := k.Plan(cmd.Context())
	if err != nil {
		return err
	}

	printPlan(os.Stdout, plan)
	return nil
}
