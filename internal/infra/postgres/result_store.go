package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

// ResultStore keeps one row per result in quiz_results. Each append is a
// single INSERT, so concurrent writers never overwrite each other.
type ResultStore struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

func NewResultStore(pool *pgxpool.Pool, log logger.Logger) *ResultStore {
	return &ResultStore{
		pool: pool,
		log:  log.With().Str("backend", "postgres").Logger(),
	}
}

// EnsureStorage checks that migrations have created the results table.
func (s *ResultStore) EnsureStorage(ctx context.Context) error {
	var table *string
	if err := s.pool.QueryRow(ctx, `SELECT to_regclass('quiz_results')::text`).Scan(&table); err != nil {
		return fmt.Errorf("check results table: %w", err)
	}
	if table == nil {
		return fmt.Errorf("quiz_results table missing; run migrate")
	}
	return nil
}

func (s *ResultStore) Load(ctx context.Context) domain.ResultSet {
	rows, err := s.pool.Query(ctx, `
		SELECT quiz_id, user_id, user_name, score, correct_answers, total_questions, completion_seconds, recorded_at
		FROM quiz_results
		ORDER BY id`)
	if err != nil {
		s.log.Warn().Err(err).Msg("result storage unreadable, treating as empty")
		return domain.ResultSet{}
	}
	defer rows.Close()

	results := domain.ResultSet{}
	for rows.Next() {
		var r domain.ResultRecord
		if err := rows.Scan(&r.QuizID, &r.UserID, &r.UserName, &r.Score, &r.CorrectAnswers,
			&r.TotalQuestions, &r.CompletionSeconds, &r.RecordedAt); err != nil {
			s.log.Warn().Err(err).Msg("result row malformed, treating storage as empty")
			return domain.ResultSet{}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("result storage unreadable, treating as empty")
		return domain.ResultSet{}
	}
	return results
}

func (s *ResultStore) Append(ctx context.Context, r domain.ResultRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_results (quiz_id, user_id, user_name, score, correct_answers, total_questions, completion_seconds, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.QuizID, r.UserID, r.UserName, r.Score, r.CorrectAnswers, r.TotalQuestions, r.CompletionSeconds, r.RecordedAt)
	if err != nil {
		return fmt.Errorf("%w: insert result: %w", domain.ErrStorageWrite, err)
	}
	return nil
}
