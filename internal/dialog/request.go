// Package dialog defines the Alice webhook wire contract and the phrase
// composer the skill builds its replies with. The structs mirror the
// protocol JSON; nothing here knows about game rules.
package dialog

import (
	"encoding/json"
	"strings"
)

// Request is the incoming webhook payload.
type Request struct {
	Meta    Meta        `json:"meta"`
	Request RequestBody `json:"request"`
	Session Session     `json:"session"`
	Version string      `json:"version"`
}

// Meta describes the device the request came from.
type Meta struct {
	Locale     string     `json:"locale"`
	Timezone   string     `json:"timezone"`
	ClientID   string     `json:"client_id"`
	Interfaces Interfaces `json:"interfaces"`
}

// Interfaces lists device capabilities; a present screen key means the
// device can show text.
type Interfaces struct {
	Screen *struct{} `json:"screen,omitempty"`
}

// RequestBody carries the utterance and the NLU results for one turn.
type RequestBody struct {
	Command           string `json:"command"`
	OriginalUtterance string `json:"original_utterance"`
	Type              string `json:"type"`
	Nlu               Nlu    `json:"nlu"`
}

// Nlu is the upstream parse: word tokens and recognized intents. Intent
// payloads are opaque to the skill, only the names matter.
type Nlu struct {
	Tokens  []string                   `json:"tokens"`
	Intents map[string]json.RawMessage `json:"intents"`
}

// Session identifies the dialogue and the user behind it.
type Session struct {
	MessageID   int          `json:"message_id"`
	SessionID   string       `json:"session_id"`
	SkillID     string       `json:"skill_id"`
	New         bool         `json:"new"`
	User        *User        `json:"user,omitempty"`
	Application *Application `json:"application,omitempty"`
}

// User is the authorized Yandex account, absent for anonymous devices.
type User struct {
	UserID string `json:"user_id"`
}

// Application identifies the device instance; always present.
type Application struct {
	ApplicationID string `json:"application_id"`
}

// builtinIntents maps platform intent names onto the skill's own set, so
// the rest of the code only ever deals with short names.
var builtinIntents = map[string]string{
	"YANDEX.HELP":            "help",
	"YANDEX.WHAT_CAN_YOU_DO": "help",
	"YANDEX.REPEAT":          "repeat",
	"YANDEX.CONFIRM":         "yes",
	"YANDEX.REJECT":          "no",
}

// HasIntent reports whether the NLU recognized the named intent, either
// under its own name or a platform builtin alias.
func (r *Request) HasIntent(name string) bool {
	if _, ok := r.Request.Nlu.Intents[name]; ok {
		return true
	}
	for builtin, alias := range builtinIntents {
		if alias != name {
			continue
		}
		if _, ok := r.Request.Nlu.Intents[builtin]; ok {
			return true
		}
	}
	return false
}

// HasScreen reports whether the device can display text.
func (r *Request) HasScreen() bool {
	return r.Meta.Interfaces.Screen != nil
}

// IsEnter reports whether this turn opens a new dialogue session.
func (r *Request) IsEnter() bool {
	return r.Session.New
}

// IsPing reports whether this is the platform health probe, which must be
// answered without touching any state.
func (r *Request) IsPing() bool {
	return r.Request.Type == "Ping" || strings.EqualFold(r.Request.Command, "ping")
}

// UserID returns the stable identity the user's state is keyed by: the
// account when authorized, the device otherwise.
func (r *Request) UserID() string {
	if r.Session.User != nil && r.Session.User.UserID != "" {
		return r.Session.User.UserID
	}
	if r.Session.Application != nil {
		return r.Session.Application.ApplicationID
	}
	return ""
}

// Command returns the normalized utterance text.
func (r *Request) Command() string {
	return strings.ToLower(strings.TrimSpace(r.Request.Command))
}
