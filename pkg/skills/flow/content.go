package flow

import (
	"fmt"
	"regexp"
	"strings"
)

// contentPrompt asks the model for the full content pack in Spanish. The
// SRT transcript gets appended below it.
const contentPrompt = `Eres editor de YouTube. Con el SRT que recibes, genera en español:
- 3 títulos
- 3 ideas de thumbnails (texto corto)
- Descripción (1-2 párrafos)
- Capítulos con timestamps reales (formato MM:SS Título). 10-12 capítulos. No redondees.
- Post LinkedIn (optimizado para LinkedIn, conversacional)
- Newsletter (tono cercano, 220-320 palabras, CTA a comentar en el vídeo)

Newsletter estructura:
1) Saludo + contexto personal breve (1-2 frases)
2) Desarrollo con 2-3 párrafos (qué probé, qué aprendí, por qué importa)
3) 'En el vídeo verás:' + 2-4 bullets
4) Línea con el enlace exacto al vídeo
5) Cierre cercano + CTA: deja tu opinión en los comentarios del vídeo
6) P.D. opcional (1 frase)
Incluye al inicio de la newsletter:
- Asunto: ...
- Preheader: ...
Varía la apertura y el ritmo; evita plantillas repetitivas.
Incluye el enlace del vídeo en la newsletter.
Post LinkedIn reglas:
- 600–900 caracteres, 3–6 párrafos cortos, 1–2 emojis
- 1 idea central, sin desviarse
- Línea final: “Link en el primer comentario.”
- Cierre con pregunta breve o CTA a comentar
- Sin hashtags
En redes, indica que el enlace estará en el primer comentario (no pongas la URL ahí).
Reglas: no inventes; usa tokens exactos: ClawdBot, justdoit, MCP, Gemini, Google Places, WhatsApp, Telegram, Gmail, Google Sheets, Google Drive, X.
Salida: Markdown con encabezados exactamente:
## Títulos
## Ideas de thumbnails
## Descripción
## Capítulos
## LinkedIn
## Newsletter
`

// BuildContentPrompt assembles the full request: optional video link, the
// instructions, and the transcript.
func BuildContentPrompt(srtText, videoURL string) string {
	var sb strings.Builder
	if videoURL != "" {
		fmt.Fprintf(&sb, "Enlace del vídeo: %s\n\n", videoURL)
	}
	sb.WriteString(contentPrompt)
	sb.WriteString("\nSRT:\n")
	sb.WriteString(srtText)
	return sb.String()
}

// RenderContentMD builds content.md: empty final sections for manual
// editing above the generated candidates.
func RenderContentMD(titleHint, videoURL, generated string) string {
	title := titleHint
	if title == "" {
		title = "Sin título"
	}
	return fmt.Sprintf(`# Pack YouTube — %s

## Enlace del vídeo
%s

## Título (final)

## Descripción (final)

## Capítulos (final)

## Post LinkedIn (final)

## Newsletter (final)

## Asunto newsletter (final)

## Preheader newsletter (final)

## Thumbnail (final)

## Programación (final)
(YYYY-MM-DD HH:MM o "private")

# Candidatos (generado)
%s
`, title, videoURL, strings.TrimSpace(generated))
}

// ExtractSection returns the body of a `## heading` section, trimmed, up to
// the next first- or second-level heading.
func ExtractSection(md, heading string) string {
	pattern := regexp.MustCompile(`^## ` + regexp.QuoteMeta(heading) + `\s*$`)
	var out []string
	capture := false
	for _, line := range strings.Split(md, "\n") {
		if pattern.MatchString(strings.TrimSpace(line)) {
			capture = true
			continue
		}
		if capture && (strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "# ")) {
			break
		}
		if capture {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
