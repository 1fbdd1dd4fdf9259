package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shlyapa-game/shlyapa/internal/auth"
	"github.com/shlyapa-game/shlyapa/internal/content"
)

// Vocabulary is the in-memory word index the skill plays from.
type Vocabulary interface {
	GetByComplexity(count int, c content.Complexity, excludeIDs []string) ([]content.Word, error)
	Load(words []content.Word)
}

// WordLister reads the ready vocabulary from storage.
type WordLister interface {
	ListReady(ctx context.Context) ([]content.Word, error)
}

// UtilsHandler serves the content-review endpoints under /utils.
type UtilsHandler struct {
	vocab           Vocabulary
	words           WordLister
	adminSecretHash string
	tokenSecret     []byte
}

// NewUtilsHandler creates the handler. adminSecretHash is the bcrypt hash
// of the admin secret; tokenSecret signs the issued tokens.
func NewUtilsHandler(vocab Vocabulary, words WordLister, adminSecretHash string, tokenSecret []byte) *UtilsHandler {
	return &UtilsHandler{
		vocab:           vocab,
		words:           words,
		adminSecretHash: adminSecretHash,
		tokenSecret:     tokenSecret,
	}
}

type tokenRequest struct {
	Secret string `json:"secret"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken handles POST /utils/token: exchanges the admin secret for a
// signed short-lived token.
func (h *UtilsHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.adminSecretHash == "" || len(h.tokenSecret) == 0 {
		http.Error(w, "admin access is not configured", http.StatusServiceUnavailable)
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := auth.CheckSecret(h.adminSecretHash, req.Secret); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	token, expiresAt, err := auth.GenerateAdminToken(h.tokenSecret, auth.DefaultTokenExpiry)
	if err != nil {
		log.Error().Err(err).Msg("generate admin token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Word handles GET /utils/word: an HTML card with a definition and the
// answer in white-on-white, for reviewing how words read on a screen.
func (h *UtilsHandler) Word(w http.ResponseWriter, r *http.Request) {
	picked, err := h.vocab.GetByComplexity(1, content.ComplexityEasy, nil)
	if err != nil {
		http.Error(w, "no words loaded", http.StatusNotFound)
		return
	}
	card := fmt.Sprintf("<p>%s</p><p><font color='white'>%s</font></p>",
		picked[0].Definition, picked[0].Word)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, `<html><head><meta charset="utf-8"></head><body>%s</body></html>`, card)
}

// Reload handles POST /utils/reload: replaces the in-memory index with the
// current ready vocabulary, so curated words go live without a restart.
func (h *UtilsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	words, err := h.words.ListReady(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("reload vocabulary")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.vocab.Load(words)
	log.Info().Int("words", len(words)).Msg("vocabulary reloaded")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "words": len(words)})
}
