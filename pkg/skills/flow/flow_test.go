package flow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContent = `# Pack YouTube — Demo

## Enlace del vídeo
https://www.youtube.com/watch?v=abc123

## Título (final)
Automatiza tu canal con Go

## Descripción (final)
Primer párrafo.

Segundo párrafo.

## Post LinkedIn (final)
Hoy os cuento cómo automatizo el canal.

## Newsletter (final)
Hola, esta semana...

## Asunto newsletter (final)
Automatiza tu canal

## Preheader newsletter (final)
Lo que aprendí esta semana

## Thumbnail (final)

## Programación (final)
2026-09-01 17:00

# Candidatos (generado)
## Títulos
1. Algo
`

func TestExtractSection(t *testing.T) {
	assert.Equal(t, "Automatiza tu canal con Go", ExtractSection(sampleContent, "Título (final)"))
	assert.Equal(t, "Primer párrafo.\n\nSegundo párrafo.", ExtractSection(sampleContent, "Descripción (final)"))
	assert.Equal(t, "", ExtractSection(sampleContent, "Thumbnail (final)"))
	assert.Equal(t, "", ExtractSection(sampleContent, "No existe"))
}

func TestExtractSectionStopsAtNextHeading(t *testing.T) {
	got := ExtractSection(sampleContent, "Asunto newsletter (final)")
	assert.Equal(t, "Automatiza tu canal", got)
	assert.NotContains(t, got, "Preheader")

	// The last section must not swallow the generated-candidates block.
	assert.Equal(t, "2026-09-01 17:00", ExtractSection(sampleContent, "Programación (final)"))
}

func TestBuildContentPrompt(t *testing.T) {
	prompt := BuildContentPrompt("1\n00:00:00,000 --> 00:00:01,000\nhola\n", "https://youtu.be/x")
	assert.True(t, strings.HasPrefix(prompt, "Enlace del vídeo: https://youtu.be/x\n\n"))
	assert.Contains(t, prompt, "## Títulos")
	assert.Contains(t, prompt, "SRT:\n1\n")

	t.Run("no url", func(t *testing.T) {
		prompt := BuildContentPrompt("srt", "")
		assert.True(t, strings.HasPrefix(prompt, "Eres editor de YouTube"))
	})
}

func TestRenderContentMD(t *testing.T) {
	md := RenderContentMD("Demo", "https://youtu.be/x", "## Títulos\n1. Uno\n")
	assert.Contains(t, md, "# Pack YouTube — Demo")
	assert.Contains(t, md, "## Título (final)")
	assert.Contains(t, md, "## Programación (final)")
	assert.Contains(t, md, "# Candidatos (generado)\n## Títulos")

	t.Run("empty hint", func(t *testing.T) {
		assert.Contains(t, RenderContentMD("", "", ""), "# Pack YouTube — Sin título")
	})
}

func TestPrepareSingleVideo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "grabacion bruta.mov")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o644))

	prep, err := Prepare(t.Context(), []string{src}, "Mi Título: Go!", "")
	require.NoError(t, err)

	assert.Equal(t, "mi-ttulo-go", prep.Slug)
	assert.True(t, strings.HasSuffix(prep.VideoPath, prep.Slug+".mp4"))
	data, err := os.ReadFile(prep.VideoPath)
	require.NoError(t, err)
	assert.Equal(t, "video", string(data))

	// Source was moved, not copied.
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestPrepareExplicitWorkdir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("v"), 0o644))

	workdir := filepath.Join(dir, "out")
	prep, err := Prepare(t.Context(), []string{src}, "", workdir)
	require.NoError(t, err)
	assert.Equal(t, workdir, prep.Workdir)
	assert.Equal(t, "clip", prep.Slug)
	assert.FileExists(t, filepath.Join(workdir, "clip.mp4"))
}

func TestPrepareMissingVideo(t *testing.T) {
	_, err := Prepare(t.Context(), []string{"/no/such/video.mp4"}, "", "")
	assert.ErrorContains(t, err, "missing video")
}
