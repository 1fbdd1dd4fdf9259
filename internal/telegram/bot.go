// Package telegram runs the word-curation bot. Curators pull undefined
// words one at a time and reply with definitions; defined words become
// playable after the next vocabulary reload.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/shlyapa-game/shlyapa/internal/content"
	"github.com/shlyapa-game/shlyapa/internal/store"
	"github.com/shlyapa-game/shlyapa/internal/textutil"
)

// WordQueue hands out undefined words and records the results.
type WordQueue interface {
	ClaimUntouched(ctx context.Context) (*content.Word, error)
	SetDefinition(ctx context.Context, id, definition string) error
	Release(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[content.Status]int, error)
}

// CuratorProgress persists each curator chat's position in the queue.
type CuratorProgress interface {
	Get(ctx context.Context, chatID int64) (*store.Curator, error)
	Save(ctx context.Context, c *store.Curator) error
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot is the long-polling curation bot.
type Bot struct {
	api      sender
	updates  tgbotapi.UpdatesChannel
	words    WordQueue
	curators CuratorProgress
}

// New connects to the Telegram API with the given token.
func New(token string, words WordQueue, curators CuratorProgress) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60

	log.Info().Str("bot", api.Self.UserName).Msg("telegram bot connected")
	return &Bot{
		api:      api,
		updates:  api.GetUpdatesChan(cfg),
		words:    words,
		curators: curators,
	}, nil
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-b.updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	curator, err := b.curators.Get(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("load curator")
		b.reply(chatID, "Что-то сломалось, попробуй ещё раз.")
		return
	}
	if curator == nil {
		curator = &store.Curator{ChatID: chatID}
	}

	switch {
	case text == "/start":
		b.reply(chatID, "Привет! Я раздаю слова без определений.\n"+
			"/next — взять слово, ответ текстом — записать определение,\n"+
			"/skip — вернуть слово в очередь, /stats — сколько осталось.")
	case text == "/next":
		b.sendNextWord(ctx, curator)
	case text == "/skip":
		b.skipWord(ctx, curator)
	case text == "/stats":
		b.sendStats(ctx, chatID)
	case strings.HasPrefix(text, "/"):
		b.reply(chatID, "Не знаю такой команды. Попробуй /next, /skip или /stats.")
	case text != "":
		b.saveDefinition(ctx, curator, text)
	}
}

func (b *Bot) sendNextWord(ctx context.Context, curator *store.Curator) {
	// An unanswered word is re-sent instead of claiming another one, so a
	// curator cannot hold more than one word at a time.
	if curator.LastWordID != nil {
		b.reply(curator.ChatID, "Сначала ответь на прошлое слово или пропусти его: /skip")
		return
	}

	word, err := b.words.ClaimUntouched(ctx)
	if err != nil {
		log.Error().Err(err).Msg("claim word")
		b.reply(curator.ChatID, "Что-то сломалось, попробуй ещё раз.")
		return
	}
	if word == nil {
		b.reply(curator.ChatID, "Слова закончились, все размечены. Спасибо!")
		return
	}

	curator.LastWordID = &word.ID
	curator.LastSentAt = time.Now().UTC()
	if err := b.curators.Save(ctx, curator); err != nil {
		log.Error().Err(err).Int64("chat_id", curator.ChatID).Msg("save curator")
	}
	b.reply(curator.ChatID, fmt.Sprintf("Слово: %s\nНапиши определение одним сообщением.", word.Word))
}

func (b *Bot) skipWord(ctx context.Context, curator *store.Curator) {
	if curator.LastWordID == nil {
		b.reply(curator.ChatID, "Нечего пропускать. Возьми слово: /next")
		return
	}
	if err := b.words.Release(ctx, *curator.LastWordID); err != nil {
		log.Error().Err(err).Str("word_id", *curator.LastWordID).Msg("release word")
		b.reply(curator.ChatID, "Что-то сломалось, попробуй ещё раз.")
		return
	}
	curator.LastWordID = nil
	if err := b.curators.Save(ctx, curator); err != nil {
		log.Error().Err(err).Int64("chat_id", curator.ChatID).Msg("save curator")
	}
	b.reply(curator.ChatID, "Пропустила. Следующее слово: /next")
}

func (b *Bot) saveDefinition(ctx context.Context, curator *store.Curator, definition string) {
	if curator.LastWordID == nil {
		b.reply(curator.ChatID, "Сначала возьми слово: /next")
		return
	}
	if err := b.words.SetDefinition(ctx, *curator.LastWordID, definition); err != nil {
		log.Error().Err(err).Str("word_id", *curator.LastWordID).Msg("set definition")
		b.reply(curator.ChatID, "Не получилось сохранить, попробуй ещё раз.")
		return
	}
	curator.LastWordID = nil
	curator.WordsProcessed++
	if err := b.curators.Save(ctx, curator); err != nil {
		log.Error().Err(err).Int64("chat_id", curator.ChatID).Msg("save curator")
	}
	b.reply(curator.ChatID, fmt.Sprintf("Записала, у тебя уже %s. Следующее слово: /next",
		textutil.ToPhrase(curator.WordsProcessed, "слово", "слова", "слов")))
}

func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	counts, err := b.words.CountByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("count words")
		b.reply(chatID, "Что-то сломалось, попробуй ещё раз.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Готово: %d, в работе: %d, без определения: %d.",
		counts[content.StatusReady], counts[content.StatusTaken], counts[content.StatusUntouched]))
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}
