package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"quiz-leaderboard/internal/app"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/infra/memory"
	"quiz-leaderboard/internal/logger"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func newTestBot(t *testing.T) (*Bot, *recordingSender) {
	t.Helper()
	service := app.NewLeaderboardService(memory.NewResultStore(), app.NewReporter(""), app.WithLogger(logger.Nop()))
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := service.Submit(context.Background(), domain.Submission{
		QuizID: "7", UserID: "1", UserName: "Ada", Score: 5, CorrectAnswers: 5, TotalQuestions: 5,
		StartedAt: start, EndedAt: start.Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	sender := &recordingSender{}
	return &Bot{sender: sender, boards: service, log: logger.Nop()}, sender
}

func command(text string) tgbotapi.Update {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func TestLeaderboardCommand(t *testing.T) {
	bot, sender := newTestBot(t)

	bot.HandleUpdate(context.Background(), command("/leaderboard 007"))

	if len(sender.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(sender.sent))
	}
	reply := sender.sent[0]
	if reply.ChatID != 42 || reply.ParseMode != tgbotapi.ModeMarkdown {
		t.Fatalf("unexpected reply config %+v", reply)
	}
	if !strings.Contains(reply.Text, "Leaderboard: Quiz 7") || !strings.Contains(reply.Text, "🥇 *1. Ada*") {
		t.Fatalf("unexpected reply text:\n%s", reply.Text)
	}
	if !strings.Contains(reply.Text, "Time: 1m 30s") {
		t.Fatalf("expected formatted time in:\n%s", reply.Text)
	}
}

func TestLeaderboardCommandEmptyQuiz(t *testing.T) {
	bot, sender := newTestBot(t)

	bot.HandleUpdate(context.Background(), command("/leaderboard 8"))

	if len(sender.sent) != 1 || sender.sent[0].Text != app.EmptyLeaderboard {
		t.Fatalf("expected empty leaderboard reply, got %+v", sender.sent)
	}
	if strings.ContainsAny(sender.sent[0].Text, "🥇🥈🥉") {
		t.Fatalf("empty reply must not carry rank markers")
	}
}

func TestLeaderboardCommandInvalidQuizID(t *testing.T) {
	bot, sender := newTestBot(t)

	bot.HandleUpdate(context.Background(), command("/leaderboard \u0000bad"))

	if len(sender.sent) != 1 || sender.sent[0].Text != invalidQuizIDReply {
		t.Fatalf("expected validation reply, got %+v", sender.sent)
	}
	if sender.sent[0].ParseMode != "" {
		t.Fatalf("validation reply should be plain text")
	}
}

func TestNonCommandMessagesIgnored(t *testing.T) {
	bot, sender := newTestBot(t)

	bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}}})
	bot.HandleUpdate(context.Background(), tgbotapi.Update{})

	if len(sender.sent) != 0 {
		t.Fatalf("expected no replies, got %d", len(sender.sent))
	}
}
