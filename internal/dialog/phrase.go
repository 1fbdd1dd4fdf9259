package dialog

import "strings"

// Phrase is an ordered list of reply segments. Handlers build replies out
// of reusable fragments (score line, words-left line, next word) and
// concatenate them with Append; the value semantics keep composition
// explicit instead of relying on mutation order.
type Phrase struct {
	segments []segment
}

type segment struct {
	text       string
	buttons    []string
	endSession bool
}

// NewPhrase builds a single-segment phrase. Pass buttons for the
// quick-reply set; a phrase without buttons leaves an earlier fragment's
// set in force when composed.
func NewPhrase(text string, buttons ...string) Phrase {
	return Phrase{segments: []segment{{text: text, buttons: buttons}}}
}

// Append returns the concatenation of p and other. No separator is
// inserted; fragments bring their own spacing.
func (p Phrase) Append(other Phrase) Phrase {
	segments := make([]segment, 0, len(p.segments)+len(other.segments))
	segments = append(segments, p.segments...)
	segments = append(segments, other.segments...)
	return Phrase{segments: segments}
}

// EndSession returns a copy of p that closes the dialogue session.
func (p Phrase) EndSession() Phrase {
	segments := make([]segment, len(p.segments))
	copy(segments, p.segments)
	if len(segments) > 0 {
		segments[len(segments)-1].endSession = true
	}
	return Phrase{segments: segments}
}

// Render assembles the webhook response: texts concatenated in order, the
// button set of the last segment that carries one, and the end-session flag
// of the last segment.
func (p Phrase) Render(req *Request) *Response {
	var raw strings.Builder
	var buttons []string
	endSession := false
	for _, seg := range p.segments {
		raw.WriteString(seg.text)
		if seg.buttons != nil {
			buttons = seg.buttons
		}
		endSession = seg.endSession
	}

	body := ResponseBody{
		Text:       RenderText(raw.String()),
		Tts:        RenderTts(raw.String()),
		EndSession: endSession,
	}
	for _, title := range buttons {
		body.Buttons = append(body.Buttons, Button{Title: title, Hide: true})
	}

	return &Response{Response: body, Version: version(req)}
}
