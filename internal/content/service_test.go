package content

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func testWords(n int, c Complexity) []Word {
	words := make([]Word, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, Word{
			ID:         fmt.Sprintf("w%d", i),
			Word:       fmt.Sprintf("слово%d", i),
			Complexity: c,
			Definition: "определение",
			Status:     StatusReady,
		})
	}
	return words
}

func newTestService(words []Word) *Service {
	s := NewService(rand.New(rand.NewSource(1)))
	s.Load(words)
	return s
}

func TestGetByComplexity_ExactCount(t *testing.T) {
	s := newTestService(testWords(20, ComplexityEasy))
	got, err := s.GetByComplexity(10, ComplexityEasy, nil)
	if err != nil {
		t.Fatalf("GetByComplexity: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d words, want 10", len(got))
	}
	seen := make(map[string]bool)
	for _, w := range got {
		if seen[w.ID] {
			t.Fatalf("duplicate word %s", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestGetByComplexity_PrefersUnseen(t *testing.T) {
	s := newTestService(testWords(10, ComplexityEasy))
	exclude := []string{"w0", "w1", "w2", "w3", "w4"}
	got, err := s.GetByComplexity(5, ComplexityEasy, exclude)
	if err != nil {
		t.Fatalf("GetByComplexity: %v", err)
	}
	excluded := make(map[string]bool)
	for _, id := range exclude {
		excluded[id] = true
	}
	for _, w := range got {
		if excluded[w.ID] {
			t.Errorf("word %s was excluded but returned while unseen words remained", w.ID)
		}
	}
}

func TestGetByComplexity_FallsBackToSeen(t *testing.T) {
	s := newTestService(testWords(6, ComplexityEasy))
	exclude := []string{"w0", "w1", "w2", "w3"}
	got, err := s.GetByComplexity(5, ComplexityEasy, exclude)
	if err != nil {
		t.Fatalf("GetByComplexity: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d words, want 5", len(got))
	}
}

func TestGetByComplexity_NotEnoughWords(t *testing.T) {
	s := newTestService(testWords(3, ComplexityEasy))
	_, err := s.GetByComplexity(5, ComplexityEasy, nil)
	if !errors.Is(err, ErrNotEnoughWords) {
		t.Fatalf("want ErrNotEnoughWords, got %v", err)
	}
	if _, err := s.GetByComplexity(1, ComplexityHard, nil); !errors.Is(err, ErrNotEnoughWords) {
		t.Fatalf("empty tier: want ErrNotEnoughWords, got %v", err)
	}
}

func TestLoad_DropsUnready(t *testing.T) {
	words := testWords(4, ComplexityEasy)
	words[0].Status = StatusUntouched
	words[1].Status = StatusTaken
	s := newTestService(words)
	if got := s.Count(ComplexityEasy); got != 2 {
		t.Fatalf("Count: got %d want 2", got)
	}
}
