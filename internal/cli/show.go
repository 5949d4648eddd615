package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"quiz-leaderboard/internal/domain"
)

// NewShowCmd prints a rendered leaderboard to stdout.
func NewShowCmd(configPath *string) *cobra.Command {
	var query domain.LeaderboardQuery
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), *configPath, query)
		},
	}
	cmd.Flags().StringVar(&query.QuizID, "quiz", "", "quiz id (all quizzes when empty)")
	cmd.Flags().StringVar(&query.Title, "title", "", "leaderboard title")
	cmd.Flags().IntVar(&query.Limit, "limit", 0, "maximum entries (config default when 0)")
	return cmd
}

func runShow(ctx context.Context, out io.Writer, configPath string, query domain.LeaderboardQuery) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	text, err := st.service.Leaderboard(ctx, query)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
