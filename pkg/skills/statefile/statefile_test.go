package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	var m map[string]string
	assert.False(t, Load(filepath.Join(t.TempDir(), "missing.json"), &m))
	assert.Nil(t, m)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	var m map[string]string
	assert.False(t, Load(path, &m))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	in := map[string]bool{"123": true, "456": true}
	require.NoError(t, Save(path, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	var out map[string]bool
	require.True(t, Load(path, &out))
	assert.Equal(t, in, out)
}
