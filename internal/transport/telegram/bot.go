// Package telegram exposes the leaderboard through Telegram bot commands.
package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

const (
	invalidQuizIDReply = "Invalid quiz ID. Please provide a valid quiz ID."
	unavailableReply   = "The leaderboard is unavailable right now. Please try again later."
	helpReply          = "Use /leaderboard to see the top results across all quizzes, or /leaderboard <quiz-id> for a single quiz."
)

// Leaderboards renders leaderboards for bot replies.
type Leaderboards interface {
	Leaderboard(ctx context.Context, q domain.LeaderboardQuery) (string, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	boards      Leaderboards
	log         logger.Logger
	pollTimeout int
}

func NewBot(api *tgbotapi.BotAPI, boards Leaderboards, log logger.Logger, pollTimeout int) *Bot {
	return &Bot{
		api:         api,
		sender:      api,
		boards:      boards,
		log:         log.With().Str("component", "telegram").Logger(),
		pollTimeout: pollTimeout,
	}
}

// Run long-polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("account", b.api.Self.UserName).Msg("telegram bot authorised")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers the bot commands it understands and ignores the rest.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "leaderboard":
		text, markdown := b.leaderboardReply(ctx, msg.CommandArguments())
		b.reply(msg, text, markdown)
	case "start", "help":
		b.reply(msg, helpReply, false)
	}
}

func (b *Bot) leaderboardReply(ctx context.Context, args string) (string, bool) {
	var query domain.LeaderboardQuery
	if fields := strings.Fields(args); len(fields) > 0 {
		query.QuizID = fields[0]
	}

	text, err := b.boards.Leaderboard(ctx, query)
	switch {
	case errors.Is(err, domain.ErrInvalidQuizID):
		return invalidQuizIDReply, false
	case err != nil:
		b.log.Error().Err(err).Msg("render leaderboard")
		return unavailableReply, false
	}
	return text, true
}

func (b *Bot) reply(to *tgbotapi.Message, text string, markdown bool) {
	out := tgbotapi.NewMessage(to.Chat.ID, text)
	if markdown {
		out.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.sender.Send(out); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", to.Chat.ID).Msg("send reply")
	}
}
