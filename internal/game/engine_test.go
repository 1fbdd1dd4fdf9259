package game

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shlyapa-game/shlyapa/internal/content"
)

// fakeWordSource hands out a deterministic word list and records requests.
type fakeWordSource struct {
	err        error
	lastCount  int
	lastExclude []string
	served     int
}

func (f *fakeWordSource) GetByComplexity(count int, c content.Complexity, excludeIDs []string) ([]content.Word, error) {
	f.lastCount = count
	f.lastExclude = excludeIDs
	if f.err != nil {
		return nil, f.err
	}
	words := make([]content.Word, 0, count)
	for i := 0; i < count; i++ {
		f.served++
		words = append(words, content.Word{
			ID:         fmt.Sprintf("id%d", f.served),
			Word:       fmt.Sprintf("слово%d", f.served),
			Definition: "определение",
		})
	}
	return words, nil
}

func newTestEngine(src WordSource) *Engine {
	e := NewEngine(src)
	e.now = func() time.Time { return time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func startGame(t *testing.T, e *Engine, user *UserState, names ...string) *SessionState {
	t.Helper()
	session := &SessionState{}
	e.EnterIsNewUser(user, session)
	if err := e.Start(user, session, names); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return session
}

func TestEnterIsNewUser(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := &SessionState{Step: StepGame}

	if !e.EnterIsNewUser(user, session) {
		t.Error("first visit must count as new user")
	}
	if session.Step != StepAwaitNames {
		t.Errorf("step after enter: got %q", session.Step)
	}
	if e.EnterIsNewUser(user, session) {
		t.Error("immediate re-enter must not count as new user")
	}

	user.LastEnter = e.now().Add(-16 * 24 * time.Hour)
	if !e.EnterIsNewUser(user, session) {
		t.Error("16 days idle must count as new user again")
	}
}

func TestStart_RosterAndFirstDeal(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "аня", "БОРЯ")

	if session.Step != StepGame {
		t.Fatalf("step: got %q", session.Step)
	}
	if session.Players[0].Name != "Аня" || session.Players[1].Name != "Боря" {
		t.Errorf("names not normalized: %q, %q", session.Players[0].Name, session.Players[1].Name)
	}
	if session.WordsTotal != 5 {
		t.Errorf("two players draw 5 words, got %d", session.WordsTotal)
	}
	if session.CurrentWord == nil {
		t.Fatal("first word must be dealt")
	}
	if session.CurrentPlayerIdx != 0 {
		t.Errorf("first deal must land on player 0, got %d", session.CurrentPlayerIdx)
	}
	if len(session.WordsLeft)+1 != session.WordsTotal {
		t.Errorf("queue accounting broken: left=%d total=%d", len(session.WordsLeft), session.WordsTotal)
	}
}

func TestStart_WordCountPerRoster(t *testing.T) {
	cases := map[int]int{1: 10, 2: 5, 3: 5, 4: 4, 5: 3, 10: 3}
	for players, want := range cases {
		src := &fakeWordSource{}
		e := newTestEngine(src)
		names := make([]string, players)
		for i := range names {
			names[i] = fmt.Sprintf("игрок%d", i)
		}
		startGame(t, e, &UserState{}, names...)
		if src.lastCount != want {
			t.Errorf("%d players: drew %d words, want %d", players, src.lastCount, want)
		}
	}
}

func TestStart_PropagatesPoolError(t *testing.T) {
	poolErr := errors.New("pool dry")
	e := newTestEngine(&fakeWordSource{err: poolErr})
	session := &SessionState{}
	user := &UserState{}
	e.EnterIsNewUser(user, session)
	if err := e.Start(user, session, []string{"я"}); !errors.Is(err, poolErr) {
		t.Fatalf("want wrapped pool error, got %v", err)
	}
	if session.Step != StepAwaitNames {
		t.Errorf("failed start must not change phase, got %q", session.Step)
	}
}

func TestTurnRotation(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "а", "б", "в")

	start := session.CurrentPlayerIdx
	for i := 0; i < 3; i++ {
		if idx := session.CurrentPlayerIdx; idx < 0 || idx >= 3 {
			t.Fatalf("index out of range: %d", idx)
		}
		e.Answer(user, session, session.CurrentWord.Word)
	}
	if session.CurrentPlayerIdx != start {
		t.Errorf("after 3 answers with 3 players index must return to %d, got %d", start, session.CurrentPlayerIdx)
	}
}

func TestAnswer_Scoring(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}

	// Clean right answer: 3 points.
	session := startGame(t, e, user, "я")
	if res := e.Answer(user, session, session.CurrentWord.Word); res != AnswerRight {
		t.Fatalf("exact answer: got %v", res)
	}
	if session.Players[0].Score != 3 {
		t.Errorf("clean right answer scores 3, got %d", session.Players[0].Score)
	}

	// Right after a hint: 2 points.
	e.HintTaken(session)
	e.Answer(user, session, session.CurrentWord.Word)
	if session.Players[0].Score != 5 {
		t.Errorf("hinted right answer scores 2, got total %d", session.Players[0].Score)
	}

	// Right on the second attempt: 1 point.
	if res := e.Answer(user, session, "мимо"); res != AnswerSecondAttempt {
		t.Fatalf("first miss must grant second attempt, got %v", res)
	}
	if !session.SecondAttempt {
		t.Error("second attempt flag not set")
	}
	word := session.CurrentWord.Word
	e.Answer(user, session, word)
	if session.Players[0].Score != 6 {
		t.Errorf("second-attempt right answer scores 1, got total %d", session.Players[0].Score)
	}
}

func TestAnswer_SecondAttemptKeepsWord(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "я")
	word := session.CurrentWord.Word

	e.Answer(user, session, "неправильно")
	if session.CurrentWord == nil || session.CurrentWord.Word != word {
		t.Fatal("second attempt must keep the same word current")
	}

	// Second miss is final: 0 points, next word dealt.
	if res := e.Answer(user, session, "опять не то"); res != AnswerWrong {
		t.Fatalf("second miss: got %v", res)
	}
	if session.CurrentWord.Word == word {
		t.Error("final miss must advance to the next word")
	}
	if session.Players[0].Score != 0 {
		t.Errorf("miss must not score, got %d", session.Players[0].Score)
	}
}

func TestAnswer_MissAfterHintIsFinal(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "я")
	word := session.CurrentWord.Word

	e.HintTaken(session)
	if res := e.Answer(user, session, "мимо"); res != AnswerWrong {
		t.Fatalf("miss after hint must be final, got %v", res)
	}
	if session.CurrentWord.Word == word {
		t.Error("miss after hint must advance")
	}
}

func TestAnswer_FuzzyMatching(t *testing.T) {
	word := &content.Word{Word: "громоотвод", Mispronounce: []string{"громовтвод"}}
	if !Matches(word, "громоотвод") {
		t.Error("exact answer rejected")
	}
	if !Matches(word, " Громоотвод ") {
		t.Error("case and padding must not matter")
	}
	if !Matches(word, "громовтвод") {
		t.Error("listed mispronunciation rejected")
	}
	if !Matches(word, "громоотводы") {
		t.Error("one extra letter in eleven must pass the 0.85 threshold")
	}
	if Matches(word, "кот") {
		t.Error("unrelated word accepted")
	}
	if Matches(&content.Word{Word: "кит"}, "кот") {
		t.Error("one edit in three letters is below the threshold")
	}
}

func TestWordExhaustionFinishesGame(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "я")

	for i := 0; i < session.WordsTotal; i++ {
		if session.CurrentWord == nil {
			t.Fatalf("word %d: game over too early", i)
		}
		// Mix of final outcomes: evens guessed, odds missed twice.
		if i%2 == 0 {
			e.Answer(user, session, session.CurrentWord.Word)
		} else {
			e.Answer(user, session, "мимо")
			e.Answer(user, session, "мимо")
		}
	}

	if session.Step != StepAwaitRestart {
		t.Errorf("exhausted game must await restart, got %q", session.Step)
	}
	if session.CurrentWord != nil {
		t.Error("finished game must have no current word")
	}
	// 10 words, 5 guessed cleanly.
	if got := session.Players[0].Score; got != 15 {
		t.Errorf("score: got %d want 15", got)
	}
	if user.TotalScore != 15 {
		t.Errorf("single-player game must roll into lifetime total, got %d", user.TotalScore)
	}
}

func TestMultiplayerDoesNotTouchLifetimeScore(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "а", "б")
	for session.CurrentWord != nil {
		e.Answer(user, session, session.CurrentWord.Word)
	}
	if user.TotalScore != 0 {
		t.Errorf("multiplayer game must not change lifetime total, got %d", user.TotalScore)
	}
}

func TestRecentWordsHistoryBound(t *testing.T) {
	src := &fakeWordSource{}
	e := newTestEngine(src)
	user := &UserState{}
	for i := 0; i < 15; i++ {
		startGame(t, e, user, "я")
	}
	if len(user.WordIDsGot) != 100 {
		t.Fatalf("history must cap at 100, got %d", len(user.WordIDsGot))
	}
	// 150 served in total, the first 50 evicted.
	if user.WordIDsGot[0] != "id51" {
		t.Errorf("oldest entries must go first, head is %s", user.WordIDsGot[0])
	}
	if user.WordIDsGot[99] != "id150" {
		t.Errorf("newest entry must stay, tail is %s", user.WordIDsGot[99])
	}
}

func TestPauseAndResume(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "я")
	word := session.CurrentWord.Word

	e.PauseForRestart(session)
	if session.Step != StepAwaitRestart {
		t.Fatalf("pause: got %q", session.Step)
	}
	if session.CurrentWord == nil || session.CurrentWord.Word != word {
		t.Fatal("pause must keep the current word")
	}

	e.Resume(session)
	if session.Step != StepGame {
		t.Fatalf("resume: got %q", session.Step)
	}
	if session.CurrentWord.Word != word {
		t.Error("resume must continue on the same word")
	}
}

func TestInterimScoreGate(t *testing.T) {
	e := newTestEngine(&fakeWordSource{})
	user := &UserState{}
	session := startGame(t, e, user, "я") // 10 words

	if session.NeedShowScore() {
		t.Error("gate must stay closed in the first half")
	}
	for i := 0; i < 5; i++ {
		e.Answer(user, session, session.CurrentWord.Word)
	}
	if !session.NeedShowScore() {
		t.Error("gate must open at the halfway point")
	}
	e.SetScoreShown(session)
	if session.NeedShowScore() {
		t.Error("gate is one-shot per player")
	}
}
