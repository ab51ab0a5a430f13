package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	m "testforge.dev/pkg/testforge/internal/model"
)

// TestRunnerAdapter abstracts running the external test runner against a
// folder of generated tests.
type TestRunnerAdapter interface {
	// Run invokes the runner against dir and captures its output. A non-zero
	// exit status is reported through the result, not as an error; only a
	// failure to start the process is an error.
	Run(ctx context.Context, dir m.Path) (m.ValidationResult, error)
}

// PytestRunnerAdapter runs pytest through os/exec. It blocks until the
// subprocess exits; cancellation comes from ctx only.
type PytestRunnerAdapter struct {
	executable string
}

// NewPytestRunnerAdapter constructs a PytestRunnerAdapter using the pytest
// binary found on PATH.
func NewPytestRunnerAdapter() *PytestRunnerAdapter {
	return &PytestRunnerAdapter{executable: "pytest"}
}

// Run executes pytest against dir.
func (a *PytestRunnerAdapter) Run(ctx context.Context, dir m.Path) (m.ValidationResult, error) {
	cmd := exec.CommandContext(ctx, a.executable, string(dir))

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := m.ValidationResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The runner ran and reported failures (or collected nothing).
			// That outcome belongs to the caller, not the adapter.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return result, err
	}

	return result, nil
}
