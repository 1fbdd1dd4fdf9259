package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shlyapa-game/shlyapa/internal/content"
	"github.com/shlyapa-game/shlyapa/internal/store"
)

type fakeSender struct {
	sent []string
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) last() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

type fakeWordQueue struct {
	queue       []content.Word
	definitions map[string]string
	released    []string
}

func (q *fakeWordQueue) ClaimUntouched(context.Context) (*content.Word, error) {
	if len(q.queue) == 0 {
		return nil, nil
	}
	w := q.queue[0]
	q.queue = q.queue[1:]
	return &w, nil
}

func (q *fakeWordQueue) SetDefinition(_ context.Context, id, definition string) error {
	if q.definitions == nil {
		q.definitions = make(map[string]string)
	}
	q.definitions[id] = definition
	return nil
}

func (q *fakeWordQueue) Release(_ context.Context, id string) error {
	q.released = append(q.released, id)
	return nil
}

func (q *fakeWordQueue) CountByStatus(context.Context) (map[content.Status]int, error) {
	return map[content.Status]int{content.StatusUntouched: len(q.queue)}, nil
}

type fakeCurators struct {
	byChat map[int64]*store.Curator
}

func (c *fakeCurators) Get(_ context.Context, chatID int64) (*store.Curator, error) {
	return c.byChat[chatID], nil
}

func (c *fakeCurators) Save(_ context.Context, cur *store.Curator) error {
	if c.byChat == nil {
		c.byChat = make(map[int64]*store.Curator)
	}
	saved := *cur
	c.byChat[cur.ChatID] = &saved
	return nil
}

func newTestBot(queue []content.Word) (*Bot, *fakeSender, *fakeWordQueue, *fakeCurators) {
	sender := &fakeSender{}
	words := &fakeWordQueue{queue: queue}
	curators := &fakeCurators{}
	bot := &Bot{api: sender, words: words, curators: curators}
	return bot, sender, words, curators
}

func message(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}
}

func TestCurationFlow(t *testing.T) {
	bot, sender, words, curators := newTestBot([]content.Word{
		{ID: "w1", Word: "абажур"},
		{ID: "w2", Word: "бурундук"},
	})
	ctx := context.Background()

	bot.handleMessage(ctx, message(1, "/next"))
	if !strings.Contains(sender.last(), "абажур") {
		t.Fatalf("first word: got %q", sender.last())
	}

	bot.handleMessage(ctx, message(1, "колпак для лампы"))
	if words.definitions["w1"] != "колпак для лампы" {
		t.Fatalf("definition not saved: %+v", words.definitions)
	}
	if !strings.Contains(sender.last(), "1 слово") {
		t.Errorf("progress reply: got %q", sender.last())
	}
	if cur := curators.byChat[1]; cur == nil || cur.WordsProcessed != 1 || cur.LastWordID != nil {
		t.Errorf("curator progress: %+v", curators.byChat[1])
	}

	bot.handleMessage(ctx, message(1, "/next"))
	if !strings.Contains(sender.last(), "бурундук") {
		t.Fatalf("second word: got %q", sender.last())
	}
	bot.handleMessage(ctx, message(1, "/skip"))
	if len(words.released) != 1 || words.released[0] != "w2" {
		t.Errorf("skip must release the word: %+v", words.released)
	}
}

func TestNextWhileHoldingWord(t *testing.T) {
	bot, sender, _, _ := newTestBot([]content.Word{
		{ID: "w1", Word: "абажур"},
		{ID: "w2", Word: "бурундук"},
	})
	ctx := context.Background()

	bot.handleMessage(ctx, message(1, "/next"))
	bot.handleMessage(ctx, message(1, "/next"))
	if !strings.Contains(sender.last(), "/skip") {
		t.Errorf("expected a reminder about the held word, got %q", sender.last())
	}
}

func TestDefinitionWithoutWord(t *testing.T) {
	bot, sender, words, _ := newTestBot(nil)
	bot.handleMessage(context.Background(), message(1, "что-то написал"))
	if len(words.definitions) != 0 {
		t.Errorf("nothing to define: %+v", words.definitions)
	}
	if !strings.Contains(sender.last(), "/next") {
		t.Errorf("expected a nudge to /next, got %q", sender.last())
	}
}

func TestQueueExhausted(t *testing.T) {
	bot, sender, _, _ := newTestBot(nil)
	bot.handleMessage(context.Background(), message(1, "/next"))
	if !strings.Contains(sender.last(), "закончились") {
		t.Errorf("got %q", sender.last())
	}
}

func TestStats(t *testing.T) {
	bot, sender, _, _ := newTestBot([]content.Word{{ID: "w1", Word: "абажур"}})
	bot.handleMessage(context.Background(), message(1, "/stats"))
	if !strings.Contains(sender.last(), "без определения: 1") {
		t.Errorf("got %q", sender.last())
	}
}
