package dialog

import (
	"regexp"
	"strings"
)

// Phrase text carries inline markup tokens that split it into a display
// rendition and a spoken (TTS) rendition:
//
//	[audio|file.opus]  - sound effect; spoken only
//	[p|300]            - pause in milliseconds; spoken only
//	[screen|X]         - shown only
//	[voice|Y]          - spoken only
//
// The tokens are produced by the sound engine and the phrase tables and are
// opaque everywhere else.
var markupToken = regexp.MustCompile(`\[(audio|p|screen|voice)\|([^\]]*)\]`)

// RenderText strips spoken-only markup, leaving what the device shows.
func RenderText(s string) string {
	out := markupToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := markupToken.FindStringSubmatch(tok)
		if m[1] == "screen" {
			return m[2]
		}
		return ""
	})
	return strings.TrimSpace(out)
}

// RenderTts converts markup into the platform's speech syntax and drops
// display-only fragments.
func RenderTts(s string) string {
	out := markupToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := markupToken.FindStringSubmatch(tok)
		switch m[1] {
		case "audio":
			return `<speaker audio="` + m[2] + `">`
		case "p":
			return "sil <[" + m[2] + "]>"
		case "voice":
			return m[2]
		default: // screen
			return ""
		}
	})
	return strings.TrimSpace(out)
}
