package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shlyapa-game/shlyapa/internal/content"
	"github.com/shlyapa-game/shlyapa/internal/database"
	"github.com/shlyapa-game/shlyapa/internal/dialog"
	"github.com/shlyapa-game/shlyapa/internal/game"
	"github.com/shlyapa-game/shlyapa/internal/httpapi"
	"github.com/shlyapa-game/shlyapa/internal/skill"
	"github.com/shlyapa-game/shlyapa/internal/store"
	"github.com/shlyapa-game/shlyapa/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	if lvl, err := zerolog.ParseLevel(getenv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	addr := getenv("SHLYAPA_HTTP_ADDR", ":8080")
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}
	migrationsDir := getenv("MIGRATIONS_DIR", "migrations")

	ctx := context.Background()
	dbPool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer dbPool.Close()
	log.Info().Msg("connected to database")

	if err := database.Migrate(ctx, dbPool, migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}
	log.Info().Msg("migrations up to date")

	wordStore := store.NewWordStore(dbPool)
	stateStore := store.NewStateStore(dbPool)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	vocab := content.NewService(rng)
	words, err := wordStore.ListReady(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load vocabulary")
	}
	vocab.Load(words)
	log.Info().Int("words", len(words)).Msg("vocabulary loaded")

	engine := game.NewEngine(vocab)
	dispatcher := skill.New(engine, dialog.AliceSoundEngine{}, rng)

	router := httpapi.NewRouter(httpapi.Config{
		Dispatcher:      dispatcher,
		States:          stateStore,
		Vocab:           vocab,
		Words:           wordStore,
		AdminSecretHash: os.Getenv("SHLYAPA_ADMIN_SECRET_HASH"),
		TokenSecret:     []byte(os.Getenv("SHLYAPA_TOKEN_SECRET")),
		RateLimiter:     httpapi.DefaultRateLimiter(),
	})

	botCtx, stopBot := context.WithCancel(ctx)
	defer stopBot()
	if token := os.Getenv("SHLYAPA_TELEGRAM_TOKEN"); token != "" {
		bot, err := telegram.New(token, wordStore, store.NewCuratorStore(dbPool))
		if err != nil {
			log.Fatal().Err(err).Msg("telegram bot")
		}
		go bot.Run(botCtx)
	} else {
		log.Info().Msg("SHLYAPA_TELEGRAM_TOKEN is empty, curation bot disabled")
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("skill backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopBot()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
