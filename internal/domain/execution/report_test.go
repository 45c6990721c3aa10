package execution_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindling-sh/kindling/internal/domain/execution"
	"github.com/kindling-sh/kindling/internal/domain/step"
)

func TestRunReport_Succeeded(t *testing.T) {
	t.Parallel()

	start := time.Now()

	t.Run("all skipped or succeeded", func(t *testing.T) {
		t.Parallel()

		report := execution.NewRunReport("ubuntu/amd64", []execution.StepResult{
			execution.NewStepResult(step.MustNewID("docker:engine"), step.StatusSkipped),
			execution.NewStepResult(step.MustNewID("kind:cluster"), step.StatusSucceeded),
		}, start, start.Add(time.Minute))

		assert.True(t, report.Succeeded())
		assert.Nil(t, report.FirstFailure())
	})

	t.Run("advisory failure is a warning", func(t *testing.T) {
		t.Parallel()

		report := execution.NewRunReport("ubuntu/amd64", []execution.StepResult{
			execution.NewStepResult(step.MustNewID("docker:group"), step.StatusFailed).
				WithError(errors.New("usermod failed")).
				WithAdvisory(true),
		}, start, start.Add(time.Second))

		assert.True(t, report.Succeeded())
		assert.Nil(t, report.FirstFailure())
		assert.Equal(t, 1, report.Summary().Warnings)
	})

	t.Run("fatal failure fails the run", func(t *testing.T) {
		t.Parallel()

		report := execution.NewRunReport("ubuntu/amd64", []execution.StepResult{
			execution.NewStepResult(step.MustNewID("docker:daemon"), step.StatusFailed).
				WithError(errors.New("not ready after 60s")),
			execution.NewStepResult(step.MustNewID("kind:cluster"), step.StatusAborted),
		}, start, start.Add(time.Minute))

		assert.False(t, report.Succeeded())
		failure := report.FirstFailure()
		require.NotNil(t, failure)
		assert.Equal(t, "docker:daemon", failure.StepID().String())
	})
}

func TestRunReport_Summary(t *testing.T) {
	t.Parallel()

	start := time.Now()
	report := execution.NewRunReport("ubuntu/amd64", []execution.StepResult{
		execution.NewStepResult(step.MustNewID("apt:package:curl"), step.StatusSkipped),
		execution.NewStepResult(step.MustNewID("docker:engine"), step.StatusSucceeded),
		execution.NewStepResult(step.MustNewID("docker:daemon"), step.StatusFailed),
		execution.NewStepResult(step.MustNewID("kind:cluster"), step.StatusAborted),
		execution.NewStepResult(step.MustNewID("addons:metrics-api"), step.StatusFailed).
			WithAdvisory(true),
	}, start, start.Add(2*time.Minute))

	summary := report.Summary()
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Aborted)
	assert.Equal(t, 1, summary.Warnings)

	assert.NotEmpty(t, report.ID())
	assert.Equal(t, "ubuntu/amd64", report.Platform())
	assert.Equal(t, 2*time.Minute, report.Duration())
}
