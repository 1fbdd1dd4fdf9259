// Package skill is the per-turn entry point of the dialogue: it looks at
// the session phase and the detected intents, picks the one game operation
// that applies and renders the reply. The dispatcher itself keeps no state;
// everything it mutates arrives as arguments and is saved by the caller.
package skill

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shlyapa-game/shlyapa/internal/dialog"
	"github.com/shlyapa-game/shlyapa/internal/game"
	"github.com/shlyapa-game/shlyapa/internal/textutil"
)

// resetCommand wipes both states and starts over; used during testing of
// the live skill.
const resetCommand = "сбросить состояние"

// ErrNoRoute means the phase/intent combination has no handler. That is a
// contract violation, not a user error: the dispatch table must be
// complete.
var ErrNoRoute = errors.New("no handler for phase and intent")

// Service routes one turn to one handler.
type Service struct {
	engine *game.Engine
	sounds dialog.SoundEngine
	rng    *rand.Rand
}

// New creates the dispatcher. rng drives phrase variant selection.
func New(engine *game.Engine, sounds dialog.SoundEngine, rng *rand.Rand) *Service {
	return &Service{engine: engine, sounds: sounds, rng: rng}
}

// HandleRequest handles one turn. First matching rule wins; the order is
// load-bearing: global intents (help, hint, score, exit, restart) are
// checked before phase-specific handling so they work mid-game.
func (s *Service) HandleRequest(req *dialog.Request, user *game.UserState, sess *game.SessionState) (*dialog.Response, error) {
	if req.Command() == resetCommand {
		*user = game.UserState{}
		*sess = game.SessionState{}
		return s.enter(req, user, sess, false), nil
	}

	if sess.Step == game.StepNone || req.IsEnter() {
		return s.enter(req, user, sess, false), nil
	}
	if req.HasIntent("help") {
		return s.help(req, sess), nil
	}
	if req.HasIntent("hint") {
		return s.hint(req, sess, ""), nil
	}
	if req.HasIntent("score") {
		return s.score(req, user, sess), nil
	}
	if req.HasIntent("exit") {
		return s.exitGame(req), nil
	}
	if req.HasIntent("restart") {
		return s.restart(req, sess), nil
	}

	switch sess.Step {
	case game.StepAwaitNames:
		if req.HasIntent("restart") {
			return s.enter(req, user, sess, true), nil
		}
		return s.setUpGame(req, user, sess)
	case game.StepGame:
		if req.HasIntent("repeat") {
			return dialog.NewPhrase(s.readWord(sess, ReadRepeat, false), ingameButtons...).Render(req), nil
		}
		return s.answer(req, user, sess), nil
	case game.StepAwaitRestart:
		return s.maybeRestart(req, user, sess), nil
	}

	return nil, fmt.Errorf("step %q, command %q: %w", sess.Step, req.Command(), ErrNoRoute)
}

// enter greets the user and opens the name-collection phase. restart skips
// the long welcome; returning users get the short one.
func (s *Service) enter(req *dialog.Request, user *game.UserState, sess *game.SessionState, restart bool) *dialog.Response {
	newUser := s.engine.EnterIsNewUser(user, sess)

	var text string
	switch {
	case restart:
		text = soundIntro + "Начинаем новую игру. Перечисли имена игроков:"
	case newUser:
		text = soundIntro +
			"Привет. В этой игре я буду загадывать тебе или вам с друзьями определения, " +
			"а вы должны называть слова. Кто больше угадал — тот и выиграл.\n\n" +
			"Для начала перечисли имена игроков:"
	default:
		text = soundIntro + "Привет! Чтобы начать игру, перечисли имена игроков:"
	}
	return dialog.NewPhrase(text, prepareButtons...).Render(req)
}

// setUpGame turns name tokens into a roster and deals the first word.
// Malformed input (no names, too many) re-prompts without changing phase;
// a dry word pool is fatal and propagates.
func (s *Service) setUpGame(req *dialog.Request, user *game.UserState, sess *game.SessionState) (*dialog.Response, error) {
	var names []string
	for _, tok := range req.Request.Nlu.Tokens {
		if strings.EqualFold(tok, "и") {
			continue
		}
		names = append(names, tok)
	}
	if req.HasIntent("only_me") {
		names = []string{"я"}
	}

	if len(names) == 0 {
		return dialog.NewPhrase(
			"Назови подряд имена всех игроков, либо скажи, что играть будешь только ты.",
			prepareButtons...,
		).Render(req), nil
	}
	if len(names) > game.MaxPlayers {
		return dialog.NewPhrase(
			"Пока что играть могут не более десяти человек на одном устройстве. Перечисли не более десяти имён.",
			prepareButtons...,
		).Render(req), nil
	}

	if err := s.engine.Start(user, sess, names); err != nil {
		return nil, fmt.Errorf("set up game: %w", err)
	}

	text := fmt.Sprintf(
		"Отлично, %s, начинаем.\n\n%s",
		textutil.ToPhrase(len(names), "игрок", "игрока", "игроков"),
		s.readWord(sess, ReadFirst, false),
	)
	return dialog.NewPhrase(text, ingameButtons...).Render(req), nil
}

// answer scores the said word and builds the layered reply: verdict sound,
// optional correct-answer reveal, optional one-shot score and words-left
// announcements, then the next word or the game summary.
func (s *Service) answer(req *dialog.Request, user *game.UserState, sess *game.SessionState) *dialog.Response {
	word := sess.CurrentWord.Word
	wordSaid := strings.Join(req.Request.Nlu.Tokens, "")
	if wordSaid == "" {
		wordSaid = req.Command()
	}

	result := s.engine.Answer(user, sess, wordSaid)

	prefix := soundWrong
	if result == game.AnswerRight {
		prefix = soundRight
	}

	if result == game.AnswerSecondAttempt {
		// Same word stays current; the retry comes with the hint.
		return s.hint(req, sess, prefix)
	}

	if result == game.AnswerWrong {
		if req.HasScreen() {
			prefix += fmt.Sprintf("Правильный ответ: %s.\n\n%s", strings.ToUpper(word), s.sounds.Pause(300))
		} else {
			prefix += fmt.Sprintf("Твой ответ: %s, а правильный: %s.\n\n%s",
				strings.ToUpper(wordSaid), strings.ToUpper(word), s.sounds.Pause(300))
		}
	}

	phrase := dialog.NewPhrase(prefix)

	if sess.CurrentWord == nil {
		// Words ran out, the game is over.
		return phrase.Append(dialog.NewPhrase(
			soundWin+"Игра завершена!\n"+s.readFinalScore(user, sess)+"\n\nХочешь начать новую игру?",
			yesNoButtons...,
		)).Render(req)
	}

	if sess.NeedShowScore() {
		s.engine.SetScoreShown(sess)
		phrase = phrase.Append(dialog.NewPhrase(s.readScore(sess)+"\n", ingameButtons...))
		if !sess.LeftShown {
			s.engine.SetLeftShown(sess)
			phrase = phrase.Append(dialog.NewPhrase(s.readWordsLeft(sess) + "\n"))
		}
		phrase = phrase.Append(dialog.NewPhrase("\n" + s.readWord(sess, ReadNormal, true)))
	} else {
		phrase = phrase.Append(dialog.NewPhrase(s.readWord(sess, ReadNormal, false), ingameButtons...))
	}
	return phrase.Render(req)
}

// hint reveals the definition again plus the word's length and edge
// letters, discounting the word's score. Outside a game it falls back to
// help.
func (s *Service) hint(req *dialog.Request, sess *game.SessionState, prefix string) *dialog.Response {
	if sess.Step != game.StepGame || sess.CurrentWord == nil {
		return s.help(req, sess)
	}
	s.engine.HintTaken(sess)
	text := prefix + "Подскажу:\n" +
		textutil.UpperFirst(sess.CurrentWord.Definition) + ".\n" +
		s.readHint(sess)
	return dialog.NewPhrase(text, ingameButtons...).Render(req)
}

// score reads the running score mid-game or the final tally after one.
func (s *Service) score(req *dialog.Request, user *game.UserState, sess *game.SessionState) *dialog.Response {
	switch {
	case sess.Step == game.StepGame && sess.CurrentWord != nil:
		text := s.readScore(sess) + "\n" + s.readWordsLeft(sess) + "\n\n" + s.readWord(sess, ReadRepeat, false)
		return dialog.NewPhrase(text, ingameButtons...).Render(req)
	case sess.Step == game.StepAwaitRestart && len(sess.Players) > 0:
		return dialog.NewPhrase(
			s.readFinalScore(user, sess)+"\n\nХочешь начать новую игру?",
			yesNoButtons...,
		).Render(req)
	default:
		return s.help(req, sess)
	}
}

// restart asks for confirmation before throwing a running game away.
func (s *Service) restart(req *dialog.Request, sess *game.SessionState) *dialog.Response {
	s.engine.PauseForRestart(sess)
	return dialog.NewPhrase("Ты точно хочешь закончить эту игру и начать новую?", yesNoButtons...).Render(req)
}

// maybeRestart resolves the confirmation: yes re-enters fresh, anything
// else resumes the suspended word, or leaves when there is nothing to
// resume.
func (s *Service) maybeRestart(req *dialog.Request, user *game.UserState, sess *game.SessionState) *dialog.Response {
	if req.HasIntent("yes") {
		return s.enter(req, user, sess, true)
	}
	if sess.CurrentWord != nil {
		s.engine.Resume(sess)
		return dialog.NewPhrase(s.readWord(sess, ReadContinue, false), ingameButtons...).Render(req)
	}
	return s.exitGame(req)
}

func (s *Service) exitGame(req *dialog.Request) *dialog.Response {
	return dialog.NewPhrase("Выхожу из игры. Возвращайся!").EndSession().Render(req)
}

// help explains the game relative to where the user currently is.
func (s *Service) help(req *dialog.Request, sess *game.SessionState) *dialog.Response {
	switch sess.Step {
	case game.StepGame:
		multi := len(sess.Players) > 1
		you, listen := "Ты", "ты отгадываешь"
		whom := "тебе"
		if multi {
			you, listen = "Вы", "вы отгадываете"
			whom = "вам"
		}
		target := "тебе"
		if multi {
			target = "игроку по имени " + sess.CurrentPlayer().Name
		}
		text := fmt.Sprintf(
			"%s в игре «Шляпа», в которой я говорю %s короткие определения, а %s слова. "+
				"Прямо сейчас я дала %s очередное задание, и жду на него ответ. "+
				"Можно попросить меня повторить задание, если нужно, или взять подсказку.",
			you, whom, listen, target,
		)
		return dialog.NewPhrase(text, ingameButtons...).Render(req)
	case game.StepAwaitRestart:
		return dialog.NewPhrase(
			"Ты в игре «Шляпа», в которой я буду говорить тебе или вам с друзьями короткие определения, "+
				"по которым нужно отгадывать слова. "+
				"Сейчас ты можешь начать новую игру, сказав «Да», или выйти, сказав «Нет».",
			yesNoButtons...,
		).Render(req)
	default:
		return dialog.NewPhrase(
			"Ты в игре «Шляпа», в которой я буду говорить тебе или вам с друзьями короткие определения, "+
				"а вы должны отгадывать слова. Прямо сейчас назови мне имена игроков по порядку, "+
				"либо можешь сказать, что играть будешь только ты.",
			prepareButtons...,
		).Render(req)
	}
}
