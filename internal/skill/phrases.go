package skill

import (
	"fmt"
	"strings"

	"github.com/shlyapa-game/shlyapa/internal/game"
	"github.com/shlyapa-game/shlyapa/internal/textutil"
)

// Quick-reply sets per phase.
var (
	prepareButtons = []string{"Только я", "Заново", "Помощь", "Выход"}
	ingameButtons  = []string{"Повтори", "Подсказка", "Какой счёт", "Начать с начала", "Помощь", "Выход"}
	yesNoButtons   = []string{"Да", "Нет", "Помощь"}
)

// Uploaded skill sounds.
const (
	soundIntro = "[audio|dialogs-upload/008dafcd-99bc-4fd1-9561-4686c375eec6/cb19ca47-2ef6-4788-b09f-0d47776e4de3.opus]"
	soundRight = "[audio|dialogs-upload/008dafcd-99bc-4fd1-9561-4686c375eec6/7fbd83e1-7c22-468d-a8fe-8f0439000fd6.opus]"
	soundWrong = "[audio|dialogs-upload/008dafcd-99bc-4fd1-9561-4686c375eec6/ac858f28-3c34-403c-81c7-5d64449e4ea7.opus]"
	soundWin   = "[audio|alice-sounds-game-win-3.opus]"
)

// ReadMode selects how a word is presented.
type ReadMode int

const (
	// ReadNormal - the next word mid-game.
	ReadNormal ReadMode = iota
	// ReadFirst - the opening word of a fresh game.
	ReadFirst
	// ReadRepeat - the same word again on request.
	ReadRepeat
	// ReadContinue - the pending word after a declined restart.
	ReadContinue
)

// Equivalent lead-ins for the next word; one is picked at random each turn.
var nextWordLeadIns = []string{
	"следующее определение:",
	"вот новое определение:",
	"слушай дальше:",
	"продолжаем, вот определение:",
}

// readWord presents the current word's definition for the current player.
func (s *Service) readWord(sess *game.SessionState, mode ReadMode, afterScore bool) string {
	multi := len(sess.Players) > 1
	name := sess.CurrentPlayer().Name

	var b strings.Builder
	switch mode {
	case ReadFirst:
		b.WriteString(s.sounds.NextWordSound())
		if multi {
			fmt.Fprintf(&b, "%s, слушай первое определение:\n", name)
		} else {
			b.WriteString("Слушай первое определение:\n")
		}
	case ReadRepeat:
		b.WriteString("Повторяю определение:\n")
	case ReadContinue:
		if multi {
			fmt.Fprintf(&b, "Продолжаем. %s, твоё определение:\n", name)
		} else {
			b.WriteString("Продолжаем, твоё определение:\n")
		}
	default:
		b.WriteString(s.sounds.NextWordSound())
		if afterScore {
			b.WriteString(s.sounds.Pause(300))
		}
		lead := textutil.PickRandom(s.rng, nextWordLeadIns)
		if multi {
			fmt.Fprintf(&b, "%s, %s\n", name, lead)
		} else {
			b.WriteString(textutil.UpperFirst(lead) + "\n")
		}
	}
	b.WriteString(textutil.UpperFirst(sess.CurrentWord.Definition) + ".")
	return b.String()
}

// readHint spells out the length and the edge letters of the current word.
func (s *Service) readHint(sess *game.SessionState) string {
	runes := []rune(sess.CurrentWord.Word)
	first := string(runes[0])
	last := string(runes[len(runes)-1])
	return fmt.Sprintf(
		"В слове %s. Первая буква — %s, последняя — %s.",
		textutil.ToPhrase(len(runes), "буква", "буквы", "букв"),
		s.sounds.LetterPronounce(strings.ToUpper(first), letterTts(first)),
		s.sounds.LetterPronounce(strings.ToUpper(last), letterTts(last)),
	)
}

// readScore announces the current player's running score.
func (s *Service) readScore(sess *game.SessionState) string {
	p := sess.CurrentPlayer()
	score := textutil.ToPhrase(p.Score, "очко", "очка", "очков")
	if len(sess.Players) > 1 {
		return fmt.Sprintf("%s, у тебя уже %s.", p.Name, score)
	}
	return fmt.Sprintf("У тебя уже %s.", score)
}

// readWordsLeft announces how many words are still in play.
func (s *Service) readWordsLeft(sess *game.SessionState) string {
	return "Осталось " + textutil.ToPhrase(sess.WordsInPlay(), "слово", "слова", "слов") + "."
}

// readFinalScore sums the finished game up: per-player results and the
// winner, or the lifetime total for a lone player.
func (s *Service) readFinalScore(user *game.UserState, sess *game.SessionState) string {
	if len(sess.Players) == 1 {
		p := sess.Players[0]
		return fmt.Sprintf(
			"Ты набрал %s. А всего за все игры у тебя %s.",
			textutil.ToPhrase(p.Score, "очко", "очка", "очков"),
			textutil.ToPhrase(user.TotalScore, "очко", "очка", "очков"),
		)
	}

	best := 0
	for _, p := range sess.Players {
		if p.Score > best {
			best = p.Score
		}
	}
	var lines, winners []string
	for _, p := range sess.Players {
		lines = append(lines, fmt.Sprintf("%s — %s", p.Name, textutil.ToPhrase(p.Score, "очко", "очка", "очков")))
		if p.Score == best {
			winners = append(winners, p.Name)
		}
	}
	verdict := "Побеждает " + winners[0] + "!"
	if len(winners) > 1 {
		verdict = "Победила дружба: " + strings.Join(winners, ", ") + "!"
	}
	return strings.Join(lines, ".\n") + ".\n" + verdict
}

// letterNames maps lowercase Russian letters to their spoken names, so the
// TTS reads "эм" instead of trying to pronounce a bare consonant.
var letterNames = map[string]string{
	"а": "а", "б": "бэ", "в": "вэ", "г": "гэ", "д": "дэ",
	"е": "е", "ё": "йо", "ж": "жэ", "з": "зэ", "и": "и",
	"й": "и краткое", "к": "ка", "л": "эль", "м": "эм", "н": "эн",
	"о": "о", "п": "пэ", "р": "эр", "с": "эс", "т": "тэ",
	"у": "у", "ф": "эф", "х": "ха", "ц": "цэ", "ч": "че",
	"ш": "ша", "щ": "ща", "ъ": "твёрдый знак", "ы": "ы",
	"ь": "мягкий знак", "э": "э", "ю": "ю", "я": "я",
}

func letterTts(letter string) string {
	if name, ok := letterNames[strings.ToLower(letter)]; ok {
		return name
	}
	return letter
}
