package media

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "00:00:00,000"},
		{"with millis", 1.5, "00:00:01,500"},
		{"hour boundary", 3661.25, "01:01:01,250"},
		{"millis carry", 59.9995, "00:01:00,000"},
		{"minute carry", 3599.9996, "01:00:00,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSRTTime(tt.in))
		})
	}
}

func TestFormatASSTime(t *testing.T) {
	assert.Equal(t, "0:00:00.00", FormatASSTime(0))
	assert.Equal(t, "0:00:01.50", FormatASSTime(1.5))
	assert.Equal(t, "1:01:01.25", FormatASSTime(3661.25))
	assert.Equal(t, "0:01:00.00", FormatASSTime(59.995))
}

func TestWrapText(t *testing.T) {
	t.Run("fits one line", func(t *testing.T) {
		assert.Equal(t, "hola mundo", WrapText("hola mundo", 18, 2))
	})
	t.Run("wraps at limit", func(t *testing.T) {
		got := WrapText("esto es una frase bastante larga", 18, 2)
		lines := strings.Split(got, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "esto es una frase", lines[0])
	})
	t.Run("overflow merges into last line", func(t *testing.T) {
		got := WrapText("uno dos tres cuatro cinco seis siete ocho nueve diez", 8, 2)
		lines := strings.Split(got, "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "diez")
	})
	t.Run("runes not bytes", func(t *testing.T) {
		assert.Equal(t, "á é í ó ú", WrapText("á é í ó ú", 9, 2))
	})
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "la la la", Sanitize(" ♪ la la la ♪ "))
}

func TestSplitSegments(t *testing.T) {
	words := []Word{
		{Word: "uno", Start: 0, End: 0.5},
		{Word: "dos", Start: 0.5, End: 1},
		{Word: "tres", Start: 1, End: 1.5},
		{Word: "cuatro", Start: 1.5, End: 2},
		{Word: "cinco", Start: 2, End: 2.5},
	}
	segments := SplitSegments([]Segment{{Start: 0, End: 2.5, Text: "uno dos tres cuatro cinco", Words: words}}, 3)
	require.Len(t, segments, 2)
	assert.Equal(t, "uno dos tres", segments[0].Text)
	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, 1.5, segments[0].End)
	assert.Equal(t, "cuatro cinco", segments[1].Text)
	assert.Equal(t, 1.5, segments[1].Start)
	assert.Equal(t, 2.5, segments[1].End)

	t.Run("short segment untouched", func(t *testing.T) {
		in := []Segment{{Text: "hola", Words: words[:2]}}
		assert.Equal(t, in, SplitSegments(in, 3))
	})
}

func TestFormatSRT(t *testing.T) {
	srt := FormatSRT([]Segment{
		{Start: 0, End: 1.5, Text: "hola a todos"},
		{Start: 1.5, End: 3, Text: "bienvenidos"},
	})
	want := "1\n00:00:00,000 --> 00:00:01,500\nhola a todos\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\nbienvenidos\n"
	assert.Equal(t, want, srt)
}

func TestFormatASS(t *testing.T) {
	doc := FormatASS([]Segment{
		{
			Start: 0, End: 1,
			Text: "hola mundo",
			Words: []Word{
				{Word: "hola", Start: 0, End: 0.5},
				{Word: "mundo", Start: 0.5, End: 1},
			},
		},
		{Start: 1, End: 2, Text: "sin palabras"},
	})
	assert.Contains(t, doc, "[Script Info]")
	assert.Contains(t, doc, "PlayResX: 1920")
	assert.Contains(t, doc, `{\k50}hola {\k50}mundo`)
	assert.Contains(t, doc, "Dialogue: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,")
	assert.Contains(t, doc, "Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,sin palabras")
}

func TestKaraokeTextWrapsLines(t *testing.T) {
	words := []Word{
		{Word: "palabralarguisima", Start: 0, End: 1},
		{Word: "otrapalabralarga", Start: 1, End: 2},
		{Word: "fin", Start: 2, End: 2.1},
	}
	got := karaokeText(words, 18, 2)
	assert.Contains(t, got, `\N`)
	assert.Contains(t, got, `{\k10}fin`)
}

func TestMakeCaption(t *testing.T) {
	t.Run("first two sentences", func(t *testing.T) {
		got := MakeCaption("Primera frase. Segunda frase! Tercera frase.", 240)
		assert.Equal(t, "Primera frase. Segunda frase!", got)
	})
	t.Run("truncates with ellipsis", func(t *testing.T) {
		got := MakeCaption(strings.Repeat("palabra ", 50), 40)
		assert.LessOrEqual(t, len([]rune(got)), 40)
		assert.True(t, strings.HasSuffix(got, "…"))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", MakeCaption("   ", 240))
	})
}

func TestComputeGainToPeak(t *testing.T) {
	tests := []struct {
		name string
		peak float64
		want float64
	}{
		{"quiet clip boosted", -12, 6},
		{"moderate boost", -4.5, 3.5},
		{"within deadband", -1.2, 0},
		{"hot clip cut", -0.2, -0.8},
		{"cut clamped", 10, -6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeGainToPeak(tt.peak), 0.0001)
		})
	}
}

func TestVolumeRegexes(t *testing.T) {
	stderr := `[Parsed_volumedetect_0 @ 0x1] n_samples: 480000
[Parsed_volumedetect_0 @ 0x1] mean_volume: -23.4 dB
[Parsed_volumedetect_0 @ 0x1] max_volume: -7.1 dB`
	assert.Equal(t, []string{"mean_volume: -23.4 dB", "-23.4"}, meanVolumeRe.FindStringSubmatch(stderr))
	assert.Equal(t, []string{"max_volume: -7.1 dB", "-7.1"}, maxVolumeRe.FindStringSubmatch(stderr))

	silence := "[silencedetect @ 0x1] silence_start: 0\n[silencedetect @ 0x1] silence_end: 1.208 | silence_duration: 1.208"
	assert.Equal(t, "1.208", silenceEndRe.FindStringSubmatch(silence)[1])
}

func TestCleanTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"cloudbot", "usamos cloudbot y CLOUDBOAT", "usamos ClawdBot y ClawdBot"},
		{"cloud opus", "con cloud opus va mejor", "con Claude Opus va mejor"},
		{"just do it spaced", "el comando just do it", "el comando justdoit"},
		{"brands capitalized", "en whatsapp y telegram y gmail", "en WhatsApp y Telegram y Gmail"},
		{"google products", "google sheets y google drive", "Google Sheets y Google Drive"},
		{"bare x", "publicado en x ayer", "publicado en X ayer"},
		{"x inside word untouched", "experiencia extra", "experiencia extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTranscript(tt.in))
		})
	}
}

func TestSegmentsFromWhisper(t *testing.T) {
	raw := `{
	  "transcription": [
	    {
	      "offsets": {"from": 500, "to": 1500},
	      "text": " hola mundo",
	      "tokens": [
	        {"text": "[_BEG_]", "offsets": {"from": 500, "to": 500}},
	        {"text": " hola", "offsets": {"from": 500, "to": 900}},
	        {"text": " mundo", "offsets": {"from": 900, "to": 1500}}
	      ]
	    },
	    {"offsets": {"from": 1500, "to": 1600}, "text": "  "}
	  ]
	}`
	var out whisperOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	segments := segmentsFromWhisper(out)
	require.Len(t, segments, 1)
	assert.Equal(t, 0.5, segments[0].Start)
	assert.Equal(t, 1.5, segments[0].End)
	assert.Equal(t, "hola mundo", segments[0].Text)
	require.Len(t, segments[0].Words, 2)
	assert.Equal(t, "hola", segments[0].Words[0].Word)
	assert.Equal(t, 0.9, segments[0].Words[0].End)
}
