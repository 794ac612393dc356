package ideas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeThumbText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse whitespace", "  Deploy   con  Docker ", "Deploy con Docker"},
		{"cap at four words", "uno dos tres cuatro cinco seis", "uno dos tres cuatro"},
		{"drop banned words", "Deploy Fácil y Rápido", "Deploy y"},
		{"banned case-insensitive", "SECRETO revelado", "revelado"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeThumbText(tt.in))
		})
	}
}

func TestBuildImagePrompt(t *testing.T) {
	got := BuildImagePrompt(Thumb{
		Text:     "Deploy Fácil con Docker extra words",
		Artifact: "docker logo",
		Concept:  "containers on dark background",
	})
	assert.Contains(t, got, `"Deploy con Docker extra"`)
	assert.Contains(t, got, "technical artifact: docker logo.")
	assert.Contains(t, got, "Concept: containers on dark background.")
	assert.NotContains(t, got, "Fácil")
}

func TestSafeSlug(t *testing.T) {
	assert.Equal(t, "deploy-con-docker", SafeSlug("¡Deploy con Docker!"))
	assert.Equal(t, "go-1-24-profile-guided", SafeSlug("Go 1-24 Profile Guided"))
	assert.Equal(t, "video", SafeSlug("¿¡!?"))
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "20250106_mi-video_abc123",
		FolderName("2025-01-06T10:00:00Z", "Mi Video", "abc123"))
	assert.Equal(t, "mi-video_abc123",
		FolderName("", "Mi Video", "abc123"))

	long := FolderName("2025-01-06T10:00:00Z",
		"this title is extremely long and repeats itself over and over and over again yes", "id1")
	assert.LessOrEqual(t, len(long), len("20250106_")+60+len("_id1"))
}

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"titles": ["t1", "t2", "t3"],
		"thumbnails": [{"photo": "assets/antonio-1.png", "text": "Arquitectura IA", "artifact": "nodes", "concept": "graph"}]
	}`))
	require.NoError(t, err)
	assert.Len(t, payload.Titles, 3)
	assert.Equal(t, "nodes", payload.Thumbnails[0].Artifact)

	_, err = ParsePayload([]byte(`{"titles": [], "thumbnails": []}`))
	require.Error(t, err)

	_, err = ParsePayload([]byte(`not json`))
	require.Error(t, err)
}

func TestFormatTitlesAndThumbs(t *testing.T) {
	assert.Equal(t, "1. uno\n2. dos", FormatTitles([]string{"uno", "dos"}))

	got := FormatThumbs([]Thumb{{Photo: "assets/antonio-1.png", Text: "Texto  Corto", Artifact: "code", Concept: "terminal"}})
	assert.Equal(t, "1. Texto Corto | assets/antonio-1.png | code | terminal", got)
}

func TestAPIKeyPrefersGoogle(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "g1")
	t.Setenv("GEMINI_API_KEY", "g2")
	key, err := APIKey()
	require.NoError(t, err)
	assert.Equal(t, "g1", key)

	t.Setenv("GOOGLE_API_KEY", "")
	key, err = APIKey()
	require.NoError(t, err)
	assert.Equal(t, "g2", key)

	t.Setenv("GEMINI_API_KEY", "")
	_, err = APIKey()
	require.Error(t, err)
}

func TestAppendErrorAccumulates(t *testing.T) {
	dir := t.TempDir()
	appendError(dir, "Failed to generate ideas: boom\n")
	appendError(dir, "Failed to generate thumb-2: boom\n")

	data, err := os.ReadFile(filepath.Join(dir, "error.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Failed to generate ideas: boom\nFailed to generate thumb-2: boom\n", string(data))
}
