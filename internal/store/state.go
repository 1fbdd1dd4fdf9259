package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shlyapa-game/shlyapa/internal/game"
)

// StateStore persists per-user and per-session game state. The session
// snapshot is one JSONB document: the shape changes with the game rules and
// a schema per field would only get in the way.
type StateStore struct {
	pool *pgxpool.Pool
}

// NewStateStore creates a StateStore on the given pool.
func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

// LoadUserState returns the user's persistent state, or nil when the user
// was never seen.
func (s *StateStore) LoadUserState(ctx context.Context, userID string) (*game.UserState, error) {
	var u game.UserState
	var lastEnter *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT last_enter, word_ids_got, total_score FROM user_states WHERE user_id = $1`,
		userID).Scan(&lastEnter, &u.WordIDsGot, &u.TotalScore)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user state %s: %w", userID, err)
	}
	if lastEnter != nil {
		u.LastEnter = *lastEnter
	}
	return &u, nil
}

// SaveUserState writes the user's state back, creating the row on first
// contact.
func (s *StateStore) SaveUserState(ctx context.Context, userID string, u *game.UserState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_states (user_id, last_enter, word_ids_got, total_score, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET last_enter = EXCLUDED.last_enter,
		    word_ids_got = EXCLUDED.word_ids_got,
		    total_score = EXCLUDED.total_score,
		    updated_at = now()`,
		userID, u.LastEnter, u.WordIDsGot, u.TotalScore)
	if err != nil {
		return fmt.Errorf("save user state %s: %w", userID, err)
	}
	return nil
}

// LoadSessionState returns the session snapshot, or nil for a session not
// seen before.
func (s *StateStore) LoadSessionState(ctx context.Context, sessionID string) (*game.SessionState, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state_json FROM session_states WHERE session_id = $1`,
		sessionID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state %s: %w", sessionID, err)
	}
	var st game.SessionState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session state %s: %w", sessionID, err)
	}
	return &st, nil
}

// SaveSessionState writes the session snapshot back.
func (s *StateStore) SaveSessionState(ctx context.Context, sessionID string, st *game.SessionState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session state %s: %w", sessionID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO session_states (session_id, state_json, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE
		SET state_json = EXCLUDED.state_json, updated_at = now()`,
		sessionID, raw)
	if err != nil {
		return fmt.Errorf("save session state %s: %w", sessionID, err)
	}
	return nil
}
