package googleauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare code", "4/0AbCdEf", "4/0AbCdEf"},
		{"redirect url", "http://localhost:8080/?state=s&code=4%2F0XyZ&scope=x", "4/0XyZ"},
		{"url without code", "http://localhost:8080/?state=s", "http://localhost:8080/?state=s"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCode(tt.input))
		})
	}
}

func TestTokenRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	tok := &oauth2.Token{
		AccessToken:  "at",
		RefreshToken: "rt",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	require.NoError(t, saveToken(path, tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "rt", got.RefreshToken)
}

func TestTokenSourceRequiresStoredToken(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "client_secret.json")
	require.NoError(t, os.WriteFile(secret, []byte(`{"installed":{"client_id":"id","client_secret":"sec","redirect_uris":["urn:ietf:wg:oauth:2.0:oob"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`), 0o600))

	creds := Credentials{
		ClientSecretPath: secret,
		TokenPath:        filepath.Join(dir, "token.json"),
		Scopes:           []string{"https://www.googleapis.com/auth/chat.messages.readonly"},
	}

	_, err := creds.TokenSource(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored token")
}

func TestLoadConfigMissingSecret(t *testing.T) {
	creds := Credentials{ClientSecretPath: filepath.Join(t.TempDir(), "absent.json")}
	_, err := creds.LoadConfig()
	require.Error(t, err)
}
