package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/shlyapa-game/shlyapa/internal/dialog"
	"github.com/shlyapa-game/shlyapa/internal/game"
)

// Dispatcher routes one dialogue turn to a reply, mutating the passed
// states in place.
type Dispatcher interface {
	HandleRequest(req *dialog.Request, user *game.UserState, sess *game.SessionState) (*dialog.Response, error)
}

// StateStore persists user and session state between turns.
type StateStore interface {
	LoadUserState(ctx context.Context, userID string) (*game.UserState, error)
	SaveUserState(ctx context.Context, userID string, u *game.UserState) error
	LoadSessionState(ctx context.Context, sessionID string) (*game.SessionState, error)
	SaveSessionState(ctx context.Context, sessionID string, st *game.SessionState) error
}

// AliceHandler serves the webhook: decode, load state, dispatch, save
// state, encode.
type AliceHandler struct {
	dispatcher Dispatcher
	states     StateStore
}

// NewAliceHandler creates the webhook handler.
func NewAliceHandler(dispatcher Dispatcher, states StateStore) *AliceHandler {
	return &AliceHandler{dispatcher: dispatcher, states: states}
}

// HandleWebhook handles POST /. The platform expects 200 with a valid
// response body on every turn, so dispatcher failures turn into an apology
// reply rather than an HTTP error.
func (h *AliceHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var req dialog.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("decode webhook request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if req.IsPing() {
		writeJSON(w, http.StatusOK, dialog.Pong(&req))
		return
	}

	ctx := r.Context()
	userID := req.UserID()
	sessionID := req.Session.SessionID

	user, err := h.states.LoadUserState(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("load user state")
	}
	if user == nil {
		user = &game.UserState{}
	}
	sess, err := h.states.LoadSessionState(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("load session state")
	}
	if sess == nil {
		sess = &game.SessionState{}
	}

	resp, err := h.dispatcher.HandleRequest(&req, user, sess)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID).
			Str("command", req.Command()).
			Msg("dispatch turn")
		writeJSON(w, http.StatusOK, apology(&req))
		return
	}

	if err := h.states.SaveUserState(ctx, userID, user); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("save user state")
	}
	if err := h.states.SaveSessionState(ctx, sessionID, sess); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("save session state")
	}

	writeJSON(w, http.StatusOK, resp)
}

func apology(req *dialog.Request) *dialog.Response {
	return dialog.NewPhrase("Ой, что-то пошло не так. Скажи ещё раз?").Render(req)
}
