package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testforge.dev/pkg/testforge/internal/model"
)

// The tests swap the executable for small standard binaries so they do not
// depend on pytest being installed.

func TestPytestRunnerAdapter_CapturesStdoutAndExitZero(t *testing.T) {
	adapter := &PytestRunnerAdapter{executable: "echo"}
	dir := m.Path(t.TempDir())

	result, err := adapter.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, string(dir))
	assert.True(t, result.Passed())
}

func TestPytestRunnerAdapter_NonZeroExitIsNotAnError(t *testing.T) {
	adapter := &PytestRunnerAdapter{executable: "false"}

	result, err := adapter.Run(context.Background(), m.Path(t.TempDir()))
	require.NoError(t, err, "a failing run is a result, not an adapter error")

	assert.NotEqual(t, 0, result.ExitCode)
	assert.False(t, result.Passed())
}

func TestPytestRunnerAdapter_SpawnFailure(t *testing.T) {
	adapter := &PytestRunnerAdapter{executable: "testforge-no-such-binary"}

	_, err := adapter.Run(context.Background(), m.Path(t.TempDir()))
	require.Error(t, err)
}

func TestPytestRunnerAdapter_CancelledContext(t *testing.T) {
	adapter := &PytestRunnerAdapter{executable: "sleep"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Run(ctx, "5")
	require.Error(t, err)
}

func TestNewPytestRunnerAdapter_UsesPytest(t *testing.T) {
	adapter := NewPytestRunnerAdapter()
	assert.Equal(t, "pytest", adapter.executable)
}
