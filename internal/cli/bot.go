package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"quiz-leaderboard/internal/logger"
	"quiz-leaderboard/internal/transport/telegram"
)

// NewBotCmd runs the Telegram front end.
func NewBotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve /leaderboard over a Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), *configPath)
		},
	}
}

func runBot(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured (TELEGRAM_BOT_TOKEN)")
	}

	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("connect telegram: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return telegram.NewBot(api, st.service, *logger.Get(), cfg.Telegram.PollTimeout).Run(ctx)
}
