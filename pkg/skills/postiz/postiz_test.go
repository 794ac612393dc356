package postiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devexpertio/skills/pkg/skills/config"
)

func TestShapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips hashtags and appends trailer",
			"Nuevo vídeo sobre #golang",
			"Nuevo vídeo sobre golang.\n\nLink en el primer comentario.",
		},
		{
			"keeps existing trailer",
			"Ya está aquí.\n\nLink en el primer comentario.",
			"Ya está aquí.\n\nLink en el primer comentario.",
		},
		{
			"adds period before trailer",
			"Sin punto final",
			"Sin punto final.\n\nLink en el primer comentario.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShapeText(tt.in))
		})
	}
}

func TestParseIntegrations(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseIntegrations(" a , b ,, "))
	assert.Nil(t, ParseIntegrations(""))
}

func TestExtractUploadURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"top-level url", `{"url":"https://cdn/x.png"}`, "https://cdn/x.png"},
		{"snake case", `{"public_url":"https://cdn/y.png"}`, "https://cdn/y.png"},
		{"camel case", `{"publicUrl":"https://cdn/z.png"}`, "https://cdn/z.png"},
		{"nested file", `{"file":{"url":"https://cdn/n.png"}}`, "https://cdn/n.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUploadURL([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractUploadURL([]byte(`{"id":"123"}`))
	require.Error(t, err)

	_, err = ExtractUploadURL([]byte(`not json`))
	require.Error(t, err)
}

func TestResolveIntegrations(t *testing.T) {
	cfg := &config.Config{
		Postiz: config.PostizConfig{
			Integrations: map[string]config.PostizIntegration{
				"linkedin": {ID: "li-1"},
			},
			Groups: map[string][]string{
				"youtube_publish": {"linkedin", "raw-id-2"},
			},
		},
	}

	// explicit flag wins
	ids, err := ResolveIntegrations("x,y", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	// default group resolution with literal passthrough
	ids, err = ResolveIntegrations("", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"li-1", "raw-id-2"}, ids)

	// fallback list
	fallback := &config.Config{YouTube: config.YouTubeConfig{PostizIntegrations: []string{"f1"}}}
	ids, err = ResolveIntegrations("", "", fallback)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)

	// nothing configured
	_, err = ResolveIntegrations("", "", &config.Config{})
	require.Error(t, err)
}
