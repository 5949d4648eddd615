package app

import (
	"context"
	"errors"
	"time"

	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

// ResultStore abstracts where quiz results are persisted (file, memory, Redis, Postgres).
type ResultStore interface {
	// EnsureStorage idempotently prepares the backing location.
	EnsureStorage(ctx context.Context) error
	// Load returns every stored record, or an empty set when storage is
	// absent or unreadable.
	Load(ctx context.Context) domain.ResultSet
	// Append durably adds one record; failures wrap domain.ErrStorageWrite.
	Append(ctx context.Context, record domain.ResultRecord) error
}

// QuizCatalog resolves quiz metadata for leaderboard titles.
type QuizCatalog interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// LeaderboardService records quiz results and renders leaderboards.
type LeaderboardService struct {
	store    ResultStore
	catalog  QuizCatalog
	reporter *Reporter
	limit    int
	now      func() time.Time
	log      logger.Logger
}

// Option customizes a LeaderboardService.
type Option func(*LeaderboardService)

// WithCatalog enables title lookup for queries that carry no title.
func WithCatalog(c QuizCatalog) Option {
	return func(s *LeaderboardService) { s.catalog = c }
}

// WithLimit overrides DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *LeaderboardService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LeaderboardService) { s.now = now }
}

// WithLogger replaces the root logger.
func WithLogger(l logger.Logger) Option {
	return func(s *LeaderboardService) { s.log = l }
}

func NewLeaderboardService(store ResultStore, reporter *Reporter, opts ...Option) *LeaderboardService {
	if reporter == nil {
		reporter = NewReporter("")
	}
	s := &LeaderboardService{
		store:    store,
		reporter: reporter,
		limit:    DefaultLimit,
		now:      time.Now,
		log:      *logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates a finished attempt and appends it to the store.
func (s *LeaderboardService) Submit(ctx context.Context, sub domain.Submission) (domain.ResultRecord, error) {
	quizID, err := domain.NormalizeQuizID(sub.QuizID)
	if err != nil {
		return domain.ResultRecord{}, err
	}

	completion := sub.CompletionSeconds()
	record := domain.ResultRecord{
		QuizID:            quizID,
		UserID:            sub.UserID,
		UserName:          sub.UserName,
		Score:             sub.Score,
		CorrectAnswers:    sub.CorrectAnswers,
		TotalQuestions:    sub.TotalQuestions,
		CompletionSeconds: &completion,
		RecordedAt:        s.now().UTC(),
	}
	if err := record.Validate(); err != nil {
		return domain.ResultRecord{}, err
	}
	if err := s.store.Append(ctx, record); err != nil {
		return domain.ResultRecord{}, err
	}

	s.log.Info().
		Str("quiz_id", record.QuizID).
		Str("user_id", record.UserID).
		Float64("score", record.Score).
		Msg("result recorded")
	return record, nil
}

// View loads results and ranks them for the query.
func (s *LeaderboardService) View(ctx context.Context, q domain.LeaderboardQuery) (domain.LeaderboardView, error) {
	quizID, err := s.queryQuizID(q)
	if err != nil {
		return nil, err
	}
	return Rank(s.store.Load(ctx), quizID, s.queryLimit(q)), nil
}

// Leaderboard returns the rendered leaderboard for the query.
func (s *LeaderboardService) Leaderboard(ctx context.Context, q domain.LeaderboardQuery) (string, error) {
	quizID, err := s.queryQuizID(q)
	if err != nil {
		return "", err
	}
	view := Rank(s.store.Load(ctx), quizID, s.queryLimit(q))
	if len(view) == 0 {
		return s.reporter.Render(view, quizID, q.Title), nil
	}
	return s.reporter.Render(view, quizID, s.resolveTitle(ctx, quizID, q.Title)), nil
}

func (s *LeaderboardService) queryQuizID(q domain.LeaderboardQuery) (string, error) {
	if q.QuizID == "" {
		return "", nil
	}
	return domain.NormalizeQuizID(q.QuizID)
}

func (s *LeaderboardService) queryLimit(q domain.LeaderboardQuery) int {
	if q.Limit == 0 {
		return s.limit
	}
	return q.Limit
}

func (s *LeaderboardService) resolveTitle(ctx context.Context, quizID, title string) string {
	if title != "" || quizID == "" || s.catalog == nil {
		return title
	}
	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		if !errors.Is(err, domain.ErrQuizNotFound) {
			s.log.Warn().Err(err).Str("quiz_id", quizID).Msg("quiz catalog lookup failed")
		}
		return ""
	}
	return quiz.Title
}
