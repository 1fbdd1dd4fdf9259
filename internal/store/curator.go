package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Curator is the curation progress of one Telegram chat.
type Curator struct {
	ChatID         int64
	WordsProcessed int
	// LastWordID is the word currently awaiting this curator's
	// definition, nil between words.
	LastWordID *string
	LastSentAt time.Time
}

// CuratorStore tracks which word each curator chat is working on.
type CuratorStore struct {
	pool *pgxpool.Pool
}

// NewCuratorStore creates a CuratorStore on the given pool.
func NewCuratorStore(pool *pgxpool.Pool) *CuratorStore {
	return &CuratorStore{pool: pool}
}

// Get returns the curator record for the chat, or nil for a new chat.
func (s *CuratorStore) Get(ctx context.Context, chatID int64) (*Curator, error) {
	c := Curator{ChatID: chatID}
	var lastSent *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT words_processed, last_word_id::text, last_sent_at FROM curators WHERE chat_id = $1`,
		chatID).Scan(&c.WordsProcessed, &c.LastWordID, &lastSent)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get curator %d: %w", chatID, err)
	}
	if lastSent != nil {
		c.LastSentAt = *lastSent
	}
	return &c, nil
}

// Save upserts the curator record.
func (s *CuratorStore) Save(ctx context.Context, c *Curator) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO curators (chat_id, words_processed, last_word_id, last_sent_at)
		VALUES ($1, $2, $3::uuid, $4)
		ON CONFLICT (chat_id) DO UPDATE
		SET words_processed = EXCLUDED.words_processed,
		    last_word_id = EXCLUDED.last_word_id,
		    last_sent_at = EXCLUDED.last_sent_at`,
		c.ChatID, c.WordsProcessed, c.LastWordID, c.LastSentAt)
	if err != nil {
		return fmt.Errorf("save curator %d: %w", c.ChatID, err)
	}
	return nil
}
