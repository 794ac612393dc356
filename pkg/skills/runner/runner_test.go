package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	out, err := Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunSurfacesStderr(t *testing.T) {
	_, err := Run(context.Background(), "sh", "-c", "echo boom >&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunFallsBackToStdout(t *testing.T) {
	_, err := Run(context.Background(), "sh", "-c", "echo partial; exit 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partial")
}

func TestRunInput(t *testing.T) {
	out, err := RunInput(context.Background(), "ping", "cat")
	require.NoError(t, err)
	assert.Equal(t, "ping", out)
}

func TestRunJSON(t *testing.T) {
	var payload struct {
		OK bool `json:"ok"`
	}
	err := RunJSON(context.Background(), &payload, "sh", "-c", `echo '{"ok": true}'`)
	require.NoError(t, err)
	assert.True(t, payload.OK)
}

func TestRunJSONInvalid(t *testing.T) {
	var v any
	err := RunJSON(context.Background(), &v, "sh", "-c", "echo not-json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}
