package dialog

import "strconv"

// SoundEngine produces the markup for audio cues. The engine is injected
// into phrase building so tests can swap in a silent one.
type SoundEngine interface {
	// NextWordSound is the jingle played before a new word.
	NextWordSound() string
	// LetterPronounce shows letter and speaks its name letterTts.
	LetterPronounce(letter, letterTts string) string
	// Pause inserts a spoken pause of ms milliseconds.
	Pause(ms int) string
}

// AliceSoundEngine renders Alice dialog markup with the skill's uploaded
// sounds.
type AliceSoundEngine struct{}

func (AliceSoundEngine) NextWordSound() string {
	return "[audio|dialogs-upload/008dafcd-99bc-4fd1-9561-4686c375eec6/1c5d73a2-0ec2-420e-8745-66ffc77a6ae2.opus]"
}

func (AliceSoundEngine) LetterPronounce(letter, letterTts string) string {
	return "[screen|" + letter + "][voice|" + letterTts + "]"
}

func (AliceSoundEngine) Pause(ms int) string {
	return "[p|" + strconv.Itoa(ms) + "]"
}

// SilentSoundEngine drops sound effects and pauses and spells letters as
// plain text. Used in tests and text-only clients.
type SilentSoundEngine struct{}

func (SilentSoundEngine) NextWordSound() string { return "" }

func (SilentSoundEngine) LetterPronounce(letter, letterTts string) string { return letter }

func (SilentSoundEngine) Pause(ms int) string { return "" }
