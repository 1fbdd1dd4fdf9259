package content

// Complexity is the difficulty tier of a vocabulary word. Sessions draw from
// one tier; the set of tiers is closed.
type Complexity int16

const (
	ComplexityEasy Complexity = iota
	ComplexityMedium
	ComplexityHard
)

// Status tracks a word through the curation pipeline. Only ready words are
// ever served to players.
type Status int16

const (
	// StatusUntouched - imported, nobody wrote a definition yet.
	StatusUntouched Status = iota
	// StatusTaken - handed to a curator, definition pending.
	StatusTaken
	// StatusReady - has a definition, can be dealt in a game.
	StatusReady
)

// Word is a single vocabulary entry. Immutable once loaded into the game:
// the curation pipeline is the only writer.
type Word struct {
	ID           string     `json:"id"`
	Word         string     `json:"word"`
	Complexity   Complexity `json:"complexity"`
	Definition   string     `json:"definition"`
	Mispronounce []string   `json:"mispronounce,omitempty"`
	Status       Status     `json:"status"`
}
