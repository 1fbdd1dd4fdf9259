// Package content holds the in-memory vocabulary the game deals words from.
// The index is loaded from storage at startup and can be swapped wholesale
// (the reload endpoint); sampling is synchronous and allocation-light.
package content

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shlyapa-game/shlyapa/internal/textutil"
)

// ErrNotEnoughWords is returned when a tier cannot satisfy a request even
// after falling back to recently seen words.
var ErrNotEnoughWords = errors.New("not enough words")

// Service samples vocabulary by complexity tier. Safe for concurrent use.
type Service struct {
	mu    sync.Mutex
	index map[Complexity][]Word
	rng   *rand.Rand
}

// NewService creates an empty vocabulary service. rng drives sampling order
// and is injected so tests can seed it.
func NewService(rng *rand.Rand) *Service {
	return &Service{
		index: make(map[Complexity][]Word),
		rng:   rng,
	}
}

// Load replaces the whole index with the given words. Words that are not
// ready are dropped here so no other layer needs to check status.
func (s *Service) Load(words []Word) {
	index := make(map[Complexity][]Word)
	for _, w := range words {
		if w.Status != StatusReady {
			continue
		}
		index[w.Complexity] = append(index[w.Complexity], w)
	}
	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
}

// Count reports how many ready words the tier currently holds.
func (s *Service) Count(c Complexity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index[c])
}

// GetByComplexity returns exactly count distinct words of the given tier in
// random order, preferring words whose IDs are not in excludeIDs. Excluded
// words are used only when the rest of the pool is too small; if even that
// is not enough, ErrNotEnoughWords is returned and no words are handed out.
func (s *Service) GetByComplexity(count int, c Complexity, excludeIDs []string) ([]Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.index[c]
	if len(pool) < count {
		return nil, fmt.Errorf("complexity %d has %d words, want %d: %w", c, len(pool), count, ErrNotEnoughWords)
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	picked := make([]Word, 0, count)
	var fallback []Word
	for w := range textutil.Shuffle(s.rng, pool) {
		if excluded[w.ID] {
			fallback = append(fallback, w)
			continue
		}
		picked = append(picked, w)
		if len(picked) == count {
			return picked, nil
		}
	}
	for _, w := range fallback {
		picked = append(picked, w)
		if len(picked) == count {
			break
		}
	}
	return picked, nil
}
