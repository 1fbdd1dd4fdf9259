package dialog

// Response is the outgoing webhook payload.
type Response struct {
	Response ResponseBody `json:"response"`
	Version  string       `json:"version"`
}

// ResponseBody is the visible part of a reply: display text, spoken text
// and quick-reply buttons.
type ResponseBody struct {
	Text       string   `json:"text"`
	Tts        string   `json:"tts"`
	Buttons    []Button `json:"buttons,omitempty"`
	EndSession bool     `json:"end_session"`
}

// Button is a quick-reply suggestion under the reply.
type Button struct {
	Title string `json:"title"`
	Hide  bool   `json:"hide"`
}

// Pong answers the platform health probe.
func Pong(req *Request) *Response {
	return &Response{
		Response: ResponseBody{Text: "pong", Tts: "pong"},
		Version:  version(req),
	}
}

func version(req *Request) string {
	if req != nil && req.Version != "" {
		return req.Version
	}
	return "1.0"
}
