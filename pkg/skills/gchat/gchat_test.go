package gchat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	chat "google.golang.org/api/chat/v1"
)

func TestParseSpaceThread(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSpace  string
		wantThread string
	}{
		{"empty", "", "", ""},
		{"raw id", "AAAAxyz", "AAAAxyz", ""},
		{"resource name", "spaces/AAAAxyz", "AAAAxyz", ""},
		{"resource with thread", "spaces/AAAAxyz/threads/Tq123", "AAAAxyz", "Tq123"},
		{"gmail url", "https://mail.google.com/chat/u/0/#chat/space/AAAAxyz", "AAAAxyz", ""},
		{"gmail url with thread", "https://mail.google.com/chat/u/0/#chat/space/AAAAxyz/Tq123", "AAAAxyz", "Tq123"},
		{"unrelated url", "https://mail.google.com/mail/u/0/#inbox", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space, thread := ParseSpaceThread(tt.input)
			assert.Equal(t, tt.wantSpace, space)
			assert.Equal(t, tt.wantThread, thread)
		})
	}
}

func TestFilterThread(t *testing.T) {
	msgs := []*chat.Message{
		{Name: "m1", Thread: &chat.Thread{Name: "spaces/S/threads/T1"}},
		{Name: "m2", Thread: &chat.Thread{Name: "spaces/S/threads/T2"}},
		{Name: "m3"},
	}
	got := FilterThread(msgs, "S", "T1")
	assert.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].Name)
}

func TestFormatMessage(t *testing.T) {
	m := &chat.Message{
		CreateTime: "2025-01-06T10:00:00Z",
		Sender:     &chat.User{DisplayName: "Alice"},
		Text:       "hello",
		Name:       "spaces/S/messages/m1",
	}
	assert.Equal(t, "2025-01-06T10:00:00Z | Alice | hello | spaces/S/messages/m1", FormatMessage(m))

	fallback := &chat.Message{
		CreateTime:    "2025-01-06T10:00:00Z",
		Sender:        &chat.User{Name: "users/123"},
		FormattedText: "formatted body",
		Name:          "spaces/S/messages/m2",
	}
	assert.Contains(t, FormatMessage(fallback), "users/123")
	assert.Contains(t, FormatMessage(fallback), "formatted body")
}
