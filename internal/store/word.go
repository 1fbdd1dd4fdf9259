// Package store holds the Postgres access layer: vocabulary, per-user and
// per-session game state, and curation progress. Queries are plain pgx SQL;
// pgx.ErrNoRows maps to a nil result so callers branch on values, not
// errors.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shlyapa-game/shlyapa/internal/content"
)

// WordStore handles database operations for vocabulary words.
type WordStore struct {
	pool *pgxpool.Pool
}

// NewWordStore creates a WordStore on the given pool.
func NewWordStore(pool *pgxpool.Pool) *WordStore {
	return &WordStore{pool: pool}
}

const wordColumns = `id::text, word, complexity, definition, mispronounce, status`

func scanWord(row pgx.Row) (*content.Word, error) {
	var w content.Word
	if err := row.Scan(&w.ID, &w.Word, &w.Complexity, &w.Definition, &w.Mispronounce, &w.Status); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListReady returns every word that has a definition and can be dealt.
func (s *WordStore) ListReady(ctx context.Context) ([]content.Word, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+wordColumns+` FROM words WHERE status = $1`, content.StatusReady)
	if err != nil {
		return nil, fmt.Errorf("list ready words: %w", err)
	}
	defer rows.Close()

	var words []content.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ready words: %w", err)
	}
	return words, nil
}

// Upsert inserts the word or, when the spelling already exists, refreshes
// its complexity, definition and mispronunciations. A definition promotes
// the word straight to ready.
func (s *WordStore) Upsert(ctx context.Context, w content.Word) error {
	status := content.StatusUntouched
	if w.Definition != "" {
		status = content.StatusReady
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO words (id, word, complexity, definition, mispronounce, status)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
		ON CONFLICT (word) DO UPDATE
		SET complexity = EXCLUDED.complexity,
		    definition = EXCLUDED.definition,
		    mispronounce = EXCLUDED.mispronounce,
		    status = EXCLUDED.status`,
		w.ID, w.Word, w.Complexity, w.Definition, w.Mispronounce, status)
	if err != nil {
		return fmt.Errorf("upsert word %q: %w", w.Word, err)
	}
	return nil
}

// ClaimUntouched atomically hands the oldest undefined word to a curator,
// marking it taken. Returns nil when the whole pool is curated.
func (s *WordStore) ClaimUntouched(ctx context.Context) (*content.Word, error) {
	w, err := scanWord(s.pool.QueryRow(ctx, `
		UPDATE words SET status = $1
		WHERE id = (
			SELECT id FROM words WHERE status = $2
			ORDER BY created_at LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+wordColumns,
		content.StatusTaken, content.StatusUntouched))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim untouched word: %w", err)
	}
	return w, nil
}

// SetDefinition stores a curated definition and marks the word ready.
func (s *WordStore) SetDefinition(ctx context.Context, id, definition string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE words SET definition = $2, status = $3 WHERE id = $1::uuid`,
		id, definition, content.StatusReady)
	if err != nil {
		return fmt.Errorf("set definition for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set definition for %s: word not found", id)
	}
	return nil
}

// Release puts a claimed word back into the untouched pool.
func (s *WordStore) Release(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE words SET status = $2 WHERE id = $1::uuid AND status = $3`,
		id, content.StatusUntouched, content.StatusTaken); err != nil {
		return fmt.Errorf("release word %s: %w", id, err)
	}
	return nil
}

// CountByStatus reports pipeline progress for the curation bot.
func (s *WordStore) CountByStatus(ctx context.Context) (map[content.Status]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, count(*) FROM words GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count words: %w", err)
	}
	defer rows.Close()

	counts := make(map[content.Status]int)
	for rows.Next() {
		var st content.Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
