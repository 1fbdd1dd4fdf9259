package game

import (
	"time"

	"github.com/shlyapa-game/shlyapa/internal/content"
)

// Step is the session phase. The zero value is StepNone so a session
// deserialized from nothing starts at the entry point.
type Step string

const (
	StepNone         Step = ""
	StepAwaitNames   Step = "await_names"
	StepGame         Step = "game"
	StepAwaitRestart Step = "await_restart"
)

// Player is one seat in the roster. Created at game start, thrown away at
// the next one.
type Player struct {
	Name string `json:"name"`
	Score int    `json:"score"`
	// ScoreShown marks that this player already got their one mid-game
	// score announcement.
	ScoreShown bool `json:"score_shown"`
}

// SessionState is the whole state of one game on one device. It is loaded
// before a turn, mutated in place, and saved back by the caller.
type SessionState struct {
	Step             Step           `json:"step"`
	CurrentWord      *content.Word  `json:"current_word,omitempty"`
	Players          []*Player      `json:"players,omitempty"`
	CurrentPlayerIdx int            `json:"current_player_idx"`
	WordsLeft        []content.Word `json:"words_left,omitempty"`
	WordsTotal       int            `json:"words_total"`
	// LeftShown guards the one-time "words remaining" announcement.
	LeftShown bool `json:"left_shown"`
	// HintTaken and SecondAttempt apply to the current word only and are
	// reset every deal.
	HintTaken     bool `json:"hint_taken"`
	SecondAttempt bool `json:"second_attempt"`
}

// CurrentPlayer returns the player whose turn it is, nil outside a game.
func (s *SessionState) CurrentPlayer() *Player {
	if len(s.Players) == 0 || s.CurrentPlayerIdx < 0 || s.CurrentPlayerIdx >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayerIdx]
}

// NeedShowScore reports whether the interim score announcement is due: half
// the words have been used and the current player has not heard theirs yet.
func (s *SessionState) NeedShowScore() bool {
	p := s.CurrentPlayer()
	if p == nil || s.WordsTotal == 0 {
		return false
	}
	return len(s.WordsLeft) <= s.WordsTotal/2 && !p.ScoreShown
}

// WordsInPlay counts the words not yet resolved, including the one being
// guessed right now.
func (s *SessionState) WordsInPlay() int {
	n := len(s.WordsLeft)
	if s.CurrentWord != nil {
		n++
	}
	return n
}

// UserState is the per-user record that survives across games.
type UserState struct {
	LastEnter time.Time `json:"last_enter"`
	// WordIDsGot is the recently served word IDs, oldest first,
	// capped at recentWordsCap.
	WordIDsGot []string `json:"word_ids_got,omitempty"`
	// TotalScore accumulates across single-player games only.
	TotalScore int `json:"total_score"`
}
