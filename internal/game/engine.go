// Package game owns the Hat rules: building the roster, dealing words,
// scoring answers, rotating turns and deciding when a game ends. It never
// renders text; phrasing lives with the dispatcher.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/shlyapa-game/shlyapa/internal/content"
	"github.com/shlyapa-game/shlyapa/internal/textutil"
)

const (
	// SimilarityThreshold is the minimal answer-to-word similarity ratio
	// accepted as a correct answer.
	SimilarityThreshold = 0.85

	// MaxPlayers is the largest roster one device can host.
	MaxPlayers = 10

	// returningUserIdle is how long a user must stay away to be greeted
	// as new again.
	returningUserIdle = 15 * 24 * time.Hour

	// recentWordsCap bounds the per-user served-words history.
	recentWordsCap = 100
)

// WordSource is the word repository contract the engine draws from.
type WordSource interface {
	GetByComplexity(count int, c content.Complexity, excludeIDs []string) ([]content.Word, error)
}

// AnswerResult classifies the outcome of one answer.
type AnswerResult int

const (
	// AnswerRight - accepted, points awarded, play moved on.
	AnswerRight AnswerResult = iota
	// AnswerWrong - final miss, play moved on.
	AnswerWrong
	// AnswerSecondAttempt - first miss on a fresh word, same word stays
	// current and the player gets one retry.
	AnswerSecondAttempt
)

// Engine applies game rules to session and user state. It holds no state of
// its own; every operation mutates the structs passed in.
type Engine struct {
	words      WordSource
	complexity content.Complexity
	now        func() time.Time
}

// NewEngine creates an engine drawing easy-tier words and using wall-clock
// time.
func NewEngine(words WordSource) *Engine {
	return &Engine{
		words:      words,
		complexity: content.ComplexityEasy,
		now:        time.Now,
	}
}

// EnterIsNewUser resets the session to the name-collection phase and stamps
// the visit. Reports whether the user should get the full first-time
// welcome: either never seen before or idle long enough to have forgotten
// the rules.
func (e *Engine) EnterIsNewUser(user *UserState, session *SessionState) bool {
	newUser := user.LastEnter.IsZero() || e.now().Sub(user.LastEnter) > returningUserIdle
	user.LastEnter = e.now()
	*session = SessionState{Step: StepAwaitNames}
	return newUser
}

// Start builds the roster and deals the first word. playerNames must hold
// 1..MaxPlayers entries; the dispatcher re-prompts before calling otherwise.
// Fails without touching the session when the word pool cannot cover the
// game.
func (e *Engine) Start(user *UserState, session *SessionState, playerNames []string) error {
	wordsCount := wordsPerGame(len(playerNames))
	words, err := e.words.GetByComplexity(wordsCount, e.complexity, user.WordIDsGot)
	if err != nil {
		return fmt.Errorf("draw %d words: %w", wordsCount, err)
	}

	players := make([]*Player, 0, len(playerNames))
	for _, name := range playerNames {
		players = append(players, &Player{Name: textutil.Capitalize(name)})
	}

	session.Players = players
	// The first deal advances the index, landing the opener on player 0.
	session.CurrentPlayerIdx = len(players) - 1
	session.WordsLeft = words
	session.WordsTotal = wordsCount
	session.LeftShown = false
	session.Step = StepGame

	for _, w := range words {
		user.WordIDsGot = append(user.WordIDsGot, w.ID)
	}
	if over := len(user.WordIDsGot) - recentWordsCap; over > 0 {
		user.WordIDsGot = append(user.WordIDsGot[:0], user.WordIDsGot[over:]...)
	}

	e.nextWord(session)
	return nil
}

// wordsPerGame sizes the word queue for the roster. Bigger parties play
// shorter rounds so one session stays within a living-room attention span.
func wordsPerGame(players int) int {
	switch {
	case players == 1:
		return 10
	case players <= 3:
		return 5
	case players == 4:
		return 4
	default:
		return 3
	}
}

// Answer scores rawAnswer against the current word and moves the game
// forward. A first miss on a word with no hint taken grants a second
// attempt and keeps the word current; everything else advances to the next
// word or, when the queue is empty, finishes the game.
func (e *Engine) Answer(user *UserState, session *SessionState, rawAnswer string) AnswerResult {
	word := session.CurrentWord
	right := Matches(word, rawAnswer)

	if right {
		points := 3
		switch {
		case session.SecondAttempt:
			points = 1
		case session.HintTaken:
			points = 2
		}
		session.CurrentPlayer().Score += points
	} else if !session.SecondAttempt && !session.HintTaken {
		session.SecondAttempt = true
		return AnswerSecondAttempt
	}

	if len(session.WordsLeft) > 0 {
		e.nextWord(session)
	} else {
		e.finish(user, session)
	}

	if right {
		return AnswerRight
	}
	return AnswerWrong
}

// Matches reports whether an answer names the word: exact match, a listed
// accepted mispronunciation, or close enough by similarity ratio.
func Matches(word *content.Word, answer string) bool {
	if word == nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	target := strings.ToLower(word.Word)
	if answer == target {
		return true
	}
	for _, m := range word.Mispronounce {
		if answer == strings.ToLower(m) {
			return true
		}
	}
	return textutil.SimilarityRatio(answer, target) >= SimilarityThreshold
}

// HintTaken flags that the current word was hinted, discounting its score.
func (e *Engine) HintTaken(session *SessionState) {
	session.HintTaken = true
}

// SetScoreShown consumes the current player's one interim score
// announcement.
func (e *Engine) SetScoreShown(session *SessionState) {
	if p := session.CurrentPlayer(); p != nil {
		p.ScoreShown = true
	}
}

// SetLeftShown consumes the session's one words-remaining announcement.
func (e *Engine) SetLeftShown(session *SessionState) {
	session.LeftShown = true
}

// PauseForRestart suspends the game pending a restart confirmation. Word
// and roster stay untouched so Resume can pick up mid-word.
func (e *Engine) PauseForRestart(session *SessionState) {
	session.Step = StepAwaitRestart
}

// Resume returns a suspended game to play on the same word.
func (e *Engine) Resume(session *SessionState) {
	session.Step = StepGame
}

// nextWord pops the queue head into play, resets the per-word flags and
// rotates the turn.
func (e *Engine) nextWord(session *SessionState) {
	w := session.WordsLeft[0]
	session.CurrentWord = &w
	session.WordsLeft = session.WordsLeft[1:]
	session.HintTaken = false
	session.SecondAttempt = false

	session.CurrentPlayerIdx++
	if session.CurrentPlayerIdx >= len(session.Players) {
		session.CurrentPlayerIdx = 0
	}
}

// finish ends the game: no current word, phase awaiting the restart
// decision. Single-player scores roll into the lifetime total.
func (e *Engine) finish(user *UserState, session *SessionState) {
	session.CurrentWord = nil
	session.HintTaken = false
	session.SecondAttempt = false
	session.Step = StepAwaitRestart
	if len(session.Players) == 1 {
		user.TotalScore += session.Players[0].Score
	}
}
