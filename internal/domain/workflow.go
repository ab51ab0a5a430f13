package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"testforge.dev/pkg/testforge/internal/adapter"
	"testforge.dev/pkg/testforge/internal/controller"
	m "testforge.dev/pkg/testforge/internal/model"
)

// Output locations, fixed by convention.
const (
	TestsDirName         = "tests"
	DocsDirName          = "docs"
	DocFileName          = "project_documentation.md"
	RunnerConfigFileName = "pytest.ini"
)

const artifactFileMode = 0o644

// GenerateArgs carries the inputs for a generate run.
type GenerateArgs struct {
	ProjectRoot m.Path
	Extensions  []string
	Exclude     []string
}

// Workflow drives the per-mode orchestration: walk the project, prompt the
// model once per file, sanitize and write the artifacts. Processing is
// strictly sequential; one model call is in flight at a time.
type Workflow interface {
	GenerateTests(ctx context.Context, args GenerateArgs) error
	GenerateDocs(ctx context.Context, args GenerateArgs) error
	Validate(ctx context.Context, projectRoot m.Path) (m.ValidationResult, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ModelAdapter
	adapter.TestRunnerAdapter
	adapter.ManifestStore

	prompts *PromptBuilder
	ui      controller.UI
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	modelAdapter adapter.ModelAdapter,
	runnerAdapter adapter.TestRunnerAdapter,
	manifestStore adapter.ManifestStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter:   fsAdapter,
		ModelAdapter:      modelAdapter,
		TestRunnerAdapter: runnerAdapter,
		ManifestStore:     manifestStore,
		prompts:           NewPromptBuilder(),
		ui:                ui,
	}
}

// GenerateTests walks the project and writes one tests/test_<name>.py per
// source file, then asks the model for a pytest.ini. A failure on one file
// never stops the run; path-not-found aborts before any side effects.
func (w *workflow) GenerateTests(ctx context.Context, args GenerateArgs) error {
	if _, err := w.FileInfo(args.ProjectRoot); err != nil {
		slog.Error("Project path does not exist", "path", args.ProjectRoot)
		return fmt.Errorf("%w: %s", ErrPathNotFound, args.ProjectRoot)
	}

	startedAt := time.Now()

	if err := w.ui.Start(ctx); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	testsDir := w.JoinPath(string(args.ProjectRoot), TestsDirName)
	if err := w.EnsureDir(testsDir); err != nil {
		slog.Error("Failed to create tests directory", "path", testsDir, "error", err)
		return fmt.Errorf("create tests directory: %w", err)
	}

	var reports []m.ArtifactReport

	err := w.WalkSources(args.ProjectRoot, args.Extensions, args.Exclude, func(path, rel m.Path) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.ui.DisplayFileStarted(ctx, rel)
		report := w.generateTestFile(ctx, testsDir, path, rel)
		reports = append(reports, report)
		w.ui.DisplayFileCompleted(ctx, report)

		return nil
	})
	if err != nil {
		slog.Error("Project traversal failed", "path", args.ProjectRoot, "error", err)
		return fmt.Errorf("walk project: %w", err)
	}

	configReport := w.generateRunnerConfig(ctx, testsDir)
	reports = append(reports, configReport)
	w.ui.DisplayFileCompleted(ctx, configReport)

	w.saveManifest(testsDir, m.RunManifest{
		Command:     "generate-tests",
		ProjectRoot: args.ProjectRoot,
		Endpoint:    w.Endpoint(),
		Model:       w.Model(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		Reports:     reports,
	})

	w.ui.DisplayRunSummary(ctx, reports)

	return nil
}

// GenerateDocs walks the project and aggregates one documentation section
// per source file into docs/project_documentation.md, grouped under one
// heading per directory in traversal order.
func (w *workflow) GenerateDocs(ctx context.Context, args GenerateArgs) error {
	if _, err := w.FileInfo(args.ProjectRoot); err != nil {
		slog.Error("Project path does not exist", "path", args.ProjectRoot)
		return fmt.Errorf("%w: %s", ErrPathNotFound, args.ProjectRoot)
	}

	startedAt := time.Now()

	if err := w.ui.Start(ctx); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	docsDir := w.JoinPath(string(args.ProjectRoot), DocsDirName)
	docPath := w.JoinPath(string(docsDir), DocFileName)

	// Sections are grouped per directory so each directory heads exactly one
	// block, even though the walk interleaves subdirectories between a
	// directory's own files.
	var (
		reports  []m.ArtifactReport
		dirOrder []string
	)

	sectionsByDir := make(map[string][]string)

	err := w.WalkSources(args.ProjectRoot, args.Extensions, args.Exclude, func(path, rel m.Path) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := filepath.Dir(string(rel))
		if _, ok := sectionsByDir[dir]; !ok {
			dirOrder = append(dirOrder, dir)
			sectionsByDir[dir] = nil
		}

		w.ui.DisplayFileStarted(ctx, rel)

		report, section := w.generateDocSection(ctx, docPath, path, rel)
		if report.Status.OK() {
			sectionsByDir[dir] = append(sectionsByDir[dir], section)
		}

		reports = append(reports, report)
		w.ui.DisplayFileCompleted(ctx, report)

		return nil
	})
	if err != nil {
		slog.Error("Project traversal failed", "path", args.ProjectRoot, "error", err)
		return fmt.Errorf("walk project: %w", err)
	}

	if err := w.EnsureDir(docsDir); err != nil {
		slog.Error("Failed to create docs directory", "path", docsDir, "error", err)
		return fmt.Errorf("create docs directory: %w", err)
	}

	var blocks []string
	for _, dir := range dirOrder {
		blocks = append(blocks, fmt.Sprintf("## Directory: %s\n", dir))
		blocks = append(blocks, sectionsByDir[dir]...)
	}

	aggregate := m.ArtifactReport{Source: m.Path(DocFileName), Kind: m.KindDocSection}
	w.writeArtifact(ctx, docPath, strings.Join(blocks, "\n"), &aggregate)
	reports = append(reports, aggregate)

	w.saveManifest(docsDir, m.RunManifest{
		Command:     "generate-docs",
		ProjectRoot: args.ProjectRoot,
		Endpoint:    w.Endpoint(),
		Model:       w.Model(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		Reports:     reports,
	})

	w.ui.DisplayRunSummary(ctx, reports)

	return nil
}

// Validate runs the external test runner against <projectRoot>/tests and
// returns whatever it reported. A non-zero runner exit status is part of the
// result, not an error.
func (w *workflow) Validate(ctx context.Context, projectRoot m.Path) (m.ValidationResult, error) {
	testsDir := w.JoinPath(string(projectRoot), TestsDirName)

	if _, err := w.FileInfo(testsDir); err != nil {
		slog.Error("Tests folder does not exist", "path", testsDir)
		return m.ValidationResult{}, fmt.Errorf("%w: %s", ErrPathNotFound, testsDir)
	}

	result, err := w.Run(ctx, testsDir)
	if err != nil {
		slog.Error("Test runner invocation failed", "path", testsDir, "error", err)
		return result, fmt.Errorf("run test runner: %w", err)
	}

	slog.Info("Test runner finished", "path", testsDir, "exitCode", result.ExitCode)

	return result, nil
}

func (w *workflow) generateTestFile(ctx context.Context, testsDir, path, rel m.Path) m.ArtifactReport {
	report := m.ArtifactReport{Source: rel, Kind: m.KindTestFile}

	file, ok := w.readSource(path, rel, &report)
	if !ok {
		return report
	}

	prompt, err := w.prompts.TestPrompt(file)
	if err != nil {
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report
	}

	completion, err := w.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Model call failed", "file", rel, "error", err)
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report
	}

	code := StripFences(completion, "python", "py")
	base := strings.TrimSuffix(filepath.Base(string(rel)), filepath.Ext(string(rel)))
	outPath := w.JoinPath(string(testsDir), "test_"+base+".py")

	w.writeArtifact(ctx, outPath, code, &report)

	return report
}

func (w *workflow) generateDocSection(ctx context.Context, docPath, path, rel m.Path) (m.ArtifactReport, string) {
	report := m.ArtifactReport{Source: rel, Kind: m.KindDocSection}

	file, ok := w.readSource(path, rel, &report)
	if !ok {
		return report, ""
	}

	prompt, err := w.prompts.DocPrompt(file)
	if err != nil {
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report, ""
	}

	completion, err := w.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Model call failed", "file", rel, "error", err)
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report, ""
	}

	cleaned := StripFences(completion, "markdown", "md", "python")
	section := fmt.Sprintf("### %s\n\n%s\n", filepath.Base(string(rel)), cleaned)

	report.Status = m.Generated
	report.Artifact = docPath

	return report, section
}

func (w *workflow) generateRunnerConfig(ctx context.Context, testsDir m.Path) m.ArtifactReport {
	report := m.ArtifactReport{Source: m.Path(RunnerConfigFileName), Kind: m.KindRunnerConfig}

	prompt, err := w.prompts.RunnerConfigPrompt()
	if err != nil {
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report
	}

	completion, err := w.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Model call failed", "file", RunnerConfigFileName, "error", err)
		report.Status = m.FailedModel
		report.Error = err.Error()

		return report
	}

	content := StripFences(completion, "ini")
	outPath := w.JoinPath(string(testsDir), RunnerConfigFileName)

	w.writeArtifact(ctx, outPath, content, &report)

	return report
}

func (w *workflow) readSource(path, rel m.Path, report *m.ArtifactReport) (m.SourceFile, bool) {
	content, err := w.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read source file", "file", path, "error", err)
		report.Status = m.FailedRead
		report.Error = err.Error()

		return m.SourceFile{}, false
	}

	slog.Debug("Read source file", "file", rel, "bytes", len(content))

	return m.SourceFile{Path: path, RelPath: rel, Content: string(content)}, true
}

// writeArtifact writes the content to outPath, overwriting any previous
// artifact. When the previous artifact differs a unified diff is surfaced
// through the UI before the overwrite.
func (w *workflow) writeArtifact(ctx context.Context, outPath m.Path, content string, report *m.ArtifactReport) {
	if previous, err := w.ReadFile(outPath); err == nil && string(previous) != content {
		report.Overwrote = true
		w.ui.DisplayArtifactDiff(ctx, outPath, diffArtifacts(string(previous), content, outPath))
	}

	if err := w.WriteFile(outPath, []byte(content), artifactFileMode); err != nil {
		slog.Error("Failed to write artifact", "path", outPath, "error", err)
		report.Status = m.FailedWrite
		report.Error = err.Error()

		return
	}

	slog.Info("Artifact written", "path", outPath)
	report.Status = m.Generated
	report.Artifact = outPath
}

func (w *workflow) saveManifest(outDir m.Path, manifest m.RunManifest) {
	manifestPath := w.JoinPath(string(outDir), adapter.ManifestFileName)

	if err := w.Save(manifestPath, manifest); err != nil {
		slog.Error("Failed to save run manifest", "path", manifestPath, "error", err)
		return
	}

	slog.Debug("Run manifest saved", "path", manifestPath)
}

func diffArtifacts(previous, current string, path m.Path) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: string(path) + " (previous run)",
		ToFile:   string(path) + " (regenerated)",
		Context:  3,
	})
	if err != nil {
		return ""
	}

	return diff
}
