package kubectl

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/testutil/mocks"
)

func runCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestInstallStep_Check(t *testing.T) {
	t.Parallel()

	t.Run("installed kubectl is satisfied", func(t *testing.T) {
		t.Parallel()

		runner := mocks.NewCommandRunner()
		runner.AddSuccess("kubectl", []string{"version", "--client"}, "Client Version: v1.31.2\n")

		s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.True(t, satisfied)
	})

	t.Run("missing binary needs install", func(t *testing.T) {
		t.Parallel()

		runner := mocks.NewCommandRunner()
		runner.AddError("kubectl", []string{"version", "--client"}, errors.New("exec: kubectl: not found"))

		s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.False(t, satisfied)
	})
}

func TestInstallStep_Apply(t *testing.T) {
	t.Parallel()

	url := "https://dl.k8s.io/release/v1.31.2/bin/linux/arm64/kubectl"

	runner := mocks.NewCommandRunner()
	runner.AddSuccess("curl", []string{"-fsSL", "-o", downloadPath, url}, "")
	runner.AddSuccess("sudo", []string{"install", "-m", "0755", downloadPath, "/usr/local/bin/kubectl"}, "")

	s := NewInstallStep("arm64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	require.NoError(t, s.Apply(runCtx()))

	assert.True(t, runner.CalledWith("curl", "-fsSL", "-o", downloadPath, url))
	assert.True(t, runner.CalledWith("sudo", "install", "-m", "0755", downloadPath, "/usr/local/bin/kubectl"))
}

func TestInstallStep_Apply_ResolverFailure(t *testing.T) {
	t.Parallel()

	resolver := mocks.NewReleaseResolver("", "")
	resolver.KubectlErr = errors.New("dl.k8s.io unreachable")

	s := NewInstallStep("amd64", mocks.NewCommandRunner(), resolver)
	assert.ErrorContains(t, s.Apply(runCtx()), "unreachable")
}

func TestInstallStep_Apply_DownloadFailure(t *testing.T) {
	t.Parallel()

	url := "https://dl.k8s.io/release/v1.31.2/bin/linux/amd64/kubectl"

	runner := mocks.NewCommandRunner()
	runner.AddFailure("curl", []string{"-fsSL", "-o", downloadPath, url}, 22, "curl: (22) 404")

	s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	err := s.Apply(runCtx())
	assert.ErrorContains(t, err, "downloading kubectl")

	var stepErr *step.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, step.CodeInstallFailed, stepErr.Code)
}

func TestInstallStep_Apply_CurlMissing(t *testing.T) {
	t.Parallel()

	url := "https://dl.k8s.io/release/v1.31.2/bin/linux/amd64/kubectl"

	runner := mocks.NewCommandRunner()
	runner.AddError("curl", []string{"-fsSL", "-o", downloadPath, url},
		&exec.Error{Name: "curl", Err: exec.ErrNotFound})

	s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))

	var stepErr *step.StepError
	require.ErrorAs(t, s.Apply(runCtx()), &stepErr)
	assert.Equal(t, step.CodeMissingDependency, stepErr.Code)
}

func TestInstallStep_Verify(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddFailure("kubectl", []string{"version", "--client"}, 1, "")

	s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	assert.ErrorContains(t, s.Verify(runCtx()), "exited 1")
}

func TestProvider_Compile(t *testing.T) {
	t.Parallel()

	provider := NewProvider("amd64", mocks.NewCommandRunner(), mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	assert.Equal(t, "kubectl", provider.Name())

	steps, err := provider.Compile()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "kubectl:install", steps[0].ID().String())
	assert.Equal(t, []step.ID{
		step.MustNewID("apt:package:curl"),
		step.MustNewID("docker:daemon"),
	}, steps[0].DependsOn())
}
