// Package controller provides output adapters for displaying generation
// progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	m "testforge.dev/pkg/testforge/internal/model"
)

// UI defines the interface for displaying run progress and results.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	DisplayFileStarted(ctx context.Context, rel m.Path)
	DisplayFileCompleted(ctx context.Context, report m.ArtifactReport)
	DisplayArtifactDiff(ctx context.Context, path m.Path, diff string)
	DisplayRunSummary(ctx context.Context, reports []m.ArtifactReport)
	DisplayValidation(ctx context.Context, result m.ValidationResult)
}

// IsTTY reports whether the file is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
