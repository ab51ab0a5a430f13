package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "testforge.dev/pkg/testforge/internal/model"
)

// SimpleUI implements UI using cobra Command's output writers. It prints
// one line per processed file and a table at the end of the run.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayFileStarted announces that a source file is being processed.
func (s *SimpleUI) DisplayFileStarted(ctx context.Context, rel m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Generating for %s ...\n", rel)
}

// DisplayFileCompleted prints the outcome for one source file.
func (s *SimpleUI) DisplayFileCompleted(ctx context.Context, report m.ArtifactReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	if report.Status.OK() {
		s.printf("  %s -> %s\n", report.Source, report.Artifact)
		return
	}

	s.printf("  %s: %s (%s)\n", report.Source, report.Status, report.Error)
}

// DisplayArtifactDiff prints the unified diff against the previous artifact.
func (s *SimpleUI) DisplayArtifactDiff(ctx context.Context, path m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		return
	}

	s.printf("Regenerated %s differs from previous run:\n%s", path, diff)
}

// DisplayRunSummary renders the per-file results table.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, reports []m.ArtifactReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(reports))
}

// DisplayValidation prints the captured test-runner output.
func (s *SimpleUI) DisplayValidation(ctx context.Context, result m.ValidationResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Validation Results:\n%s", result.Stdout)

	if result.Stderr != "" {
		s.printf("\nErrors:\n%s", result.Stderr)
	}

	s.printf("\nRunner exit code: %d\n", result.ExitCode)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// renderSummaryTable builds the end-of-run table shared by both UIs.
func renderSummaryTable(reports []m.ArtifactReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Source", "Artifact", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	generated := 0

	for _, report := range reports {
		table.Append([]string{string(report.Source), string(report.Artifact), report.Status.String()})

		if report.Status.OK() {
			generated++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(reports)),
		"",
		fmt.Sprintf("%d generated", generated),
	})

	table.Render()

	return buf.String()
}
