// Command importwords loads a word list into the database.
//
// Input is a semicolon-separated file, one word per line:
//
//	word;complexity;definition[;mispronounce1,mispronounce2]
//
// Complexity is easy, medium or hard. Definition may be empty; such words
// go to the curation queue instead of the game.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/shlyapa-game/shlyapa/internal/content"
	"github.com/shlyapa-game/shlyapa/internal/database"
	"github.com/shlyapa-game/shlyapa/internal/store"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("file", "words.csv", "path to the word list")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("open word list")
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer pool.Close()

	words := store.NewWordStore(pool)

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	imported, skipped := 0, 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Int("line", line).Msg("read word list")
		}

		word, err := parseRecord(record)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping record")
			skipped++
			continue
		}
		if err := words.Upsert(ctx, word); err != nil {
			log.Fatal().Err(err).Str("word", word.Word).Msg("upsert word")
		}
		imported++
	}

	counts, err := words.CountByStatus(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count words")
	}
	log.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Int("ready", counts[content.StatusReady]).
		Int("undefined", counts[content.StatusUntouched]).
		Msg("import finished")
}

func parseRecord(record []string) (content.Word, error) {
	if len(record) < 2 {
		return content.Word{}, fmt.Errorf("want at least word;complexity, got %d fields", len(record))
	}

	word := strings.ToLower(strings.TrimSpace(record[0]))
	if word == "" {
		return content.Word{}, fmt.Errorf("empty word")
	}

	var complexity content.Complexity
	switch strings.ToLower(strings.TrimSpace(record[1])) {
	case "easy":
		complexity = content.ComplexityEasy
	case "medium":
		complexity = content.ComplexityMedium
	case "hard":
		complexity = content.ComplexityHard
	default:
		return content.Word{}, fmt.Errorf("unknown complexity %q", record[1])
	}

	w := content.Word{
		ID:         uuid.NewString(),
		Word:       word,
		Complexity: complexity,
	}
	if len(record) > 2 {
		w.Definition = strings.TrimSpace(record[2])
	}
	if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
		for _, m := range strings.Split(record[3], ",") {
			if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
				w.Mispronounce = append(w.Mispronounce, m)
			}
		}
	}
	return w, nil
}
