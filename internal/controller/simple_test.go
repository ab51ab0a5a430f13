package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testforge.dev/pkg/testforge/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	return NewSimpleUI(cmd), out
}

func TestSimpleUI_DisplayFileCompleted(t *testing.T) {
	ui, out := newBufferedUI()
	ctx := context.Background()

	ui.DisplayFileCompleted(ctx, m.ArtifactReport{
		Source:   "a.py",
		Artifact: "tests/test_a.py",
		Kind:     m.KindTestFile,
		Status:   m.Generated,
	})

	assert.Contains(t, out.String(), "a.py")
	assert.Contains(t, out.String(), "tests/test_a.py")
}

func TestSimpleUI_DisplayFileCompleted_Failure(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayFileCompleted(context.Background(), m.ArtifactReport{
		Source: "b.py",
		Kind:   m.KindTestFile,
		Status: m.FailedModel,
		Error:  "connection refused",
	})

	assert.Contains(t, out.String(), "model failed")
	assert.Contains(t, out.String(), "connection refused")
}

func TestSimpleUI_DisplayRunSummary(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayRunSummary(context.Background(), []m.ArtifactReport{
		{Source: "a.py", Artifact: "tests/test_a.py", Status: m.Generated},
		{Source: "b.py", Status: m.FailedModel, Error: "boom"},
	})

	summary := out.String()
	assert.Contains(t, summary, "a.py")
	assert.Contains(t, summary, "b.py")
	// tablewriter auto-formats header and footer cells to upper case.
	assert.Contains(t, summary, "1 GENERATED")
	assert.Contains(t, summary, "TOTAL 2")
}

func TestSimpleUI_DisplayValidation(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayValidation(context.Background(), m.ValidationResult{
		Stdout:   "collected 2 items\n2 passed",
		Stderr:   "",
		ExitCode: 0,
	})

	assert.Contains(t, out.String(), "Validation Results:")
	assert.Contains(t, out.String(), "2 passed")
	assert.NotContains(t, out.String(), "Errors:")
	assert.Contains(t, out.String(), "exit code: 0")
}

func TestSimpleUI_DisplayValidation_WithStderr(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayValidation(context.Background(), m.ValidationResult{
		Stdout:   "collected 0 items",
		Stderr:   "warning: no tests ran",
		ExitCode: 5,
	})

	assert.Contains(t, out.String(), "Errors:")
	assert.Contains(t, out.String(), "warning: no tests ran")
	assert.Contains(t, out.String(), "exit code: 5")
}

func TestSimpleUI_CancelledContextSilencesOutput(t *testing.T) {
	ui, out := newBufferedUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayFileStarted(ctx, "a.py")
	ui.DisplayRunSummary(ctx, []m.ArtifactReport{{Source: "a.py"}})

	assert.Empty(t, out.String())
}

func TestSimpleUI_StartAndClose(t *testing.T) {
	ui, _ := newBufferedUI()

	require.NoError(t, ui.Start(context.Background()))
	ui.Close(context.Background())
}

func TestFormatReportRow(t *testing.T) {
	ok := formatReportRow(m.ArtifactReport{Source: "a.py", Artifact: "tests/test_a.py", Status: m.Generated})
	assert.Contains(t, ok, "a.py")
	assert.Contains(t, ok, "tests/test_a.py")

	failed := formatReportRow(m.ArtifactReport{Source: "b.py", Status: m.FailedWrite, Error: "disk full"})
	assert.Contains(t, failed, "write failed")
	assert.Contains(t, failed, "disk full")
}
