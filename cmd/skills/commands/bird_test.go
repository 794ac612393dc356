package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devexpertio/skills/pkg/skills/bird"
	"github.com/devexpertio/skills/pkg/skills/paths"
)

func TestBirdIgnoreLowercasesUsername(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKILLS_CONFIG_PATH", "/nonexistent/config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"bird", "ignore", "--id", "123", "--username", "DevExpert"})
	require.NoError(t, root.Execute())

	ids := bird.LoadIgnoredIDs(paths.BirdIgnorePath(), "devexpert")
	assert.True(t, ids["123"])

	store := bird.LoadIgnoreStore(paths.BirdIgnorePath())
	assert.Empty(t, store.IgnoredIDs("DevExpert"))
	assert.Equal(t, []string{"123"}, store.IgnoredIDs("devexpert"))
}
