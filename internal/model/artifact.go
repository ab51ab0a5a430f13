// Package model holds the plain data types shared between the adapters,
// the domain workflow and the CLI layer.
package model

import (
	"fmt"
	"time"
)

// Path represents a file system path.
type Path string

// SourceFile is one project file picked up by the walker. It only lives for
// the duration of processing that file.
type SourceFile struct {
	// Path is the absolute (or caller-relative) location on disk.
	Path Path
	// RelPath is the path relative to the project root, used for headings
	// and log lines.
	RelPath Path
	// Content is the raw file text.
	Content string
}

// ArtifactKind identifies what a generated artifact is.
type ArtifactKind string

// Known artifact kinds.
const (
	KindTestFile     ArtifactKind = "test"
	KindDocSection   ArtifactKind = "doc"
	KindRunnerConfig ArtifactKind = "runner-config"
)

// FileStatus describes the outcome of processing a single source file.
type FileStatus int

const (
	// Generated means the artifact was produced and written.
	Generated FileStatus = iota
	// FailedRead means the source file could not be read.
	FailedRead
	// FailedModel means the model call failed; nothing was written.
	FailedModel
	// FailedWrite means the artifact could not be written to disk.
	FailedWrite
)

// String returns a short human readable label for the status.
func (s FileStatus) String() string {
	switch s {
	case Generated:
		return "generated"
	case FailedRead:
		return "read failed"
	case FailedModel:
		return "model failed"
	case FailedWrite:
		return "write failed"
	}

	return "unknown"
}

// OK reports whether the status is a success.
func (s FileStatus) OK() bool {
	return s == Generated
}

// MarshalYAML encodes the status as its label so manifests stay readable.
func (s FileStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML restores a status from its label.
func (s *FileStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var label string
	if err := unmarshal(&label); err != nil {
		return err
	}

	for _, status := range []FileStatus{Generated, FailedRead, FailedModel, FailedWrite} {
		if status.String() == label {
			*s = status
			return nil
		}
	}

	return fmt.Errorf("unknown file status %q", label)
}

// ArtifactReport records what happened to one source file during a run.
type ArtifactReport struct {
	Source   Path         `yaml:"source"`
	Artifact Path         `yaml:"artifact,omitempty"`
	Kind     ArtifactKind `yaml:"kind"`
	Status   FileStatus   `yaml:"status"`
	Error    string       `yaml:"error,omitempty"`
	// Overwrote is set when the artifact replaced a previous, different file.
	Overwrote bool `yaml:"overwrote,omitempty"`
}

// RunManifest is the persisted record of one generate run.
type RunManifest struct {
	Command     string           `yaml:"command"`
	ProjectRoot Path             `yaml:"project_root"`
	Endpoint    string           `yaml:"endpoint"`
	Model       string           `yaml:"model"`
	StartedAt   time.Time        `yaml:"started_at"`
	FinishedAt  time.Time        `yaml:"finished_at"`
	Reports     []ArtifactReport `yaml:"reports"`
}

// ValidationResult captures one test-runner invocation. It is never
// persisted, only displayed.
type ValidationResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Passed reports whether the runner exited cleanly.
func (v ValidationResult) Passed() bool {
	return v.ExitCode == 0
}
