package media

import "regexp"

// brandReplacements fix the product and brand names whisper consistently
// mishears in the Spanish recordings.
var brandReplacements = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bcloudbot\b`), "ClawdBot"},
	{regexp.MustCompile(`(?i)\bclawdbot\b`), "ClawdBot"},
	{regexp.MustCompile(`(?i)\bcloudboat\b`), "ClawdBot"},
	{regexp.MustCompile(`(?i)\bjust\s*do\s*it\b`), "justdoit"},
	{regexp.MustCompile(`(?i)\bcloud\s+opus\b`), "Claude Opus"},
	{regexp.MustCompile(`(?i)\bwhatsapp\b`), "WhatsApp"},
	{regexp.MustCompile(`(?i)\btelegram\b`), "Telegram"},
	{regexp.MustCompile(`(?i)\bgemini\b`), "Gemini"},
	{regexp.MustCompile(`(?i)\bgoogle\s+places\b`), "Google Places"},
	{regexp.MustCompile(`(?i)\bgmail\b`), "Gmail"},
	{regexp.MustCompile(`(?i)\bgoogle\s+sheets\b`), "Google Sheets"},
	{regexp.MustCompile(`(?i)\bgoogle\s+drive\b`), "Google Drive"},
}

var bareXRe = regexp.MustCompile(`\b[xX]\b`)

// CleanTranscript applies the brand-name replacements to transcript text.
func CleanTranscript(text string) string {
	for _, r := range brandReplacements {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return bareXRe.ReplaceAllString(text, "X")
}
