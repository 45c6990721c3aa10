package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindling-sh/kindling/internal/domain/execution"
	"github.com/kindling-sh/kindling/internal/domain/step"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// printPlan renders a dry-run plan.
func printPlan(w io.Writer, plan execution.Plan) {
	fprintf(w, "\n%s\n\n", headerStyle.Render("Provisioning Plan"))

	for _, entry := range plan.Entries() {
		id := entry.Step().ID().String()
		if entry.Satisfied() {
			fprintf(w, "  %s %s\n", skipStyle.Render("✓"), id)
			continue
		}
		fprintf(w, "  %s %s  %s\n", pendingStyle.Render("+"), id, skipStyle.Render(entry.Step().Explain().Summary()))
	}

	if plan.AllSatisfied() {
		fprintf(w, "\nNothing to do. The environment is fully provisioned.\n")
		return
	}
	fprintf(w, "\n%d of %d steps to apply. Run 'kindling up' to provision.\n",
		plan.PendingCount(), plan.Len())
}

// printReport renders the per-step outcome of a run.
func printReport(w io.Writer, report execution.RunReport) {
	fprintf(w, "\n%s\n\n", headerStyle.Render("Provisioning Results"))

	for _, result := range report.Results() {
		id := result.StepID().String()
		switch result.Status() {
		case step.StatusSkipped:
			fprintf(w, "  %s %s (already satisfied)\n", skipStyle.Render("-"), id)
		case step.StatusSucceeded:
			fprintf(w, "  %s %s (%s)\n", okStyle.Render("✓"), id,
				result.Duration().Round(time.Millisecond))
		case step.StatusFailed:
			if result.Advisory() {
				fprintf(w, "  %s %s: %v (warning)\n", warnStyle.Render("!"), id, result.Err())
				continue
			}
			fprintf(w, "  %s %s: %v\n", failStyle.Render("✗"), id, result.Err())
		case step.StatusAborted:
			fprintf(w, "  %s %s (aborted: dependency failed)\n", failStyle.Render("↯"), id)
		case step.StatusPending, step.StatusRunning:
			fprintf(w, "  ? %s (%s)\n", id, result.Status())
		}
	}

	summary := report.Summary()
	fprintf(w, "\nSummary: %d skipped, %d succeeded, %d failed, %d aborted",
		summary.Skipped, summary.Succeeded, summary.Failed, summary.Aborted)
	if summary.Warnings > 0 {
		fprintf(w, ", %d warnings", summary.Warnings)
	}
	fprintf(w, "\nPlatform: %s  Duration: %s  Run: %s\n",
		report.Platform(), report.Duration().Round(time.Millisecond), report.ID())
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
