package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindling-sh/kindling/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Inspect the environment without changing it",
	Long: `Doctor reports the detected platform, which tools are
installed, whether the Docker daemon is running, and whether the kind
cluster exists.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := app.DefaultDeps(cfg)
	if err != nil {
		return err
	}

	k := app.New(cfg, newLogger(cfg), deps)
	report, err := k.Doctor(cmd.Context())
	if err != nil {
		return err
	}

	printDoctorReport(os.Stdout, report)
	return nil
}

func printDoctorReport(w io.Writer, report app.DoctorReport) {
	fprintf(w, "\n%s\n\n", headerStyle.Render("Environment"))
	fprintf(w, "  Platform:  %s\n", report.Platform)
	fprintf(w, "  Supported: %s\n", yesNo(report.Supported))

	fprintf(w, "\n%s\n\n", headerStyle.Render("Tools"))
	for _, tool := range report.Tools {
		if tool.Present {
			fprintf(w, "  %s %-8s %s\n", okStyle.Render("✓"), tool.Name, tool.Version)
			continue
		}
		fprintf(w, "  %s %-8s not installed\n", failStyle.Render("✗"), tool.Name)
	}

	fprintf(w, "\n%s\n\n", headerStyle.Render("Runtime"))
	fprintf(w, "  Docker daemon:        %s\n", yesNo(report.DaemonRunning))
	fprintf(w, "  Cluster %q: %s\n", report.ClusterName, yesNo(report.ClusterExists))
}

func yesNo(b bool) string {
	if b {
		return okStyle.Render("yes")
	}
	return failStyle.Render("no")
}
