package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "testforge.dev/pkg/testforge/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea for interactive progress display. It is
// selected when stdout is a terminal.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

type fileStartedMsg struct {
	rel m.Path
}

type fileCompletedMsg struct {
	report m.ArtifactReport
}

type overwroteMsg struct {
	path m.Path
}

type summaryMsg struct {
	reports []m.ArtifactReport
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.done = make(chan struct{})
	t.program = tea.NewProgram(newProgressModel(), tea.WithOutput(t.output))

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the program and waits for its final frame.
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done
	t.program = nil
}

// DisplayFileStarted marks a file as in flight.
func (t *TUI) DisplayFileStarted(ctx context.Context, rel m.Path) {
	t.send(fileStartedMsg{rel: rel})
}

// DisplayFileCompleted records the outcome row for a file.
func (t *TUI) DisplayFileCompleted(ctx context.Context, report m.ArtifactReport) {
	t.send(fileCompletedMsg{report: report})
}

// DisplayArtifactDiff notes an overwrite; full diffs go to the log, not the
// progress view.
func (t *TUI) DisplayArtifactDiff(ctx context.Context, path m.Path, _ string) {
	t.send(overwroteMsg{path: path})
}

// DisplayRunSummary hands the final reports to the view and ends the run.
func (t *TUI) DisplayRunSummary(ctx context.Context, reports []m.ArtifactReport) {
	t.send(summaryMsg{reports: reports})
}

// DisplayValidation prints runner output directly; validation has no
// interactive progress to show.
func (t *TUI) DisplayValidation(ctx context.Context, result m.ValidationResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	fmt.Fprintf(t.output, "Validation Results:\n%s", result.Stdout)

	if result.Stderr != "" {
		fmt.Fprintf(t.output, "\nErrors:\n%s", result.Stderr)
	}

	fmt.Fprintf(t.output, "\nRunner exit code: %d\n", result.ExitCode)
}

func (t *TUI) send(msg tea.Msg) {
	if t.program == nil {
		return
	}

	t.program.Send(msg)
}

// progressModel is the Bubble Tea model showing per-file progress and the
// final summary table.
type progressModel struct {
	spin     spinner.Model
	current  string
	rows     []string
	summary  string
	finished bool
}

func newProgressModel() progressModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return progressModel{spin: spin}
}

// Init starts the spinner tick loop.
func (pm progressModel) Init() tea.Cmd {
	return pm.spin.Tick
}

// Update handles progress messages from the workflow.
func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			pm.finished = true
			return pm, tea.Quit
		}

		return pm, nil

	case fileStartedMsg:
		pm.current = string(msg.rel)
		return pm, nil

	case fileCompletedMsg:
		pm.current = ""
		pm.rows = append(pm.rows, formatReportRow(msg.report))

		return pm, nil

	case overwroteMsg:
		pm.rows = append(pm.rows, dimStyle.Render(fmt.Sprintf("  ~ overwrote %s", msg.path)))
		return pm, nil

	case summaryMsg:
		pm.summary = renderSummaryTable(msg.reports)
		pm.finished = true

		return pm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spin, cmd = pm.spin.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

// View renders the progress rows, the in-flight file and, once the run is
// done, the summary table.
func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("testforge"))
	b.WriteString("\n")

	for _, row := range pm.rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if !pm.finished && pm.current != "" {
		fmt.Fprintf(&b, "%s generating %s\n", pm.spin.View(), pm.current)
	}

	if pm.summary != "" {
		b.WriteString("\n")
		b.WriteString(pm.summary)
	}

	return b.String()
}

func formatReportRow(report m.ArtifactReport) string {
	if report.Status.OK() {
		return okStyle.Render(fmt.Sprintf("  ✓ %s -> %s", report.Source, report.Artifact))
	}

	return failStyle.Render(fmt.Sprintf("  ✗ %s: %s (%s)", report.Source, report.Status, report.Error))
}
