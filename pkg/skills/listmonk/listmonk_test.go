package listmonk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependPreheader(t *testing.T) {
	got := PrependPreheader("  # Hola\n\ncuerpo  ", " resumen corto ")
	assert.Equal(t, "<!-- preheader: resumen corto -->\n\n# Hola\n\ncuerpo", got)

	assert.Equal(t, "cuerpo", PrependPreheader("cuerpo", "  "))
}

func TestScheduleRequiresListID(t *testing.T) {
	err := NewClient().Schedule(context.Background(), ScheduleOptions{
		Name: "c", Subject: "s", BodyFile: "body.md", SendAt: "2025-01-01T10:00:00+01:00",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list id")
}
