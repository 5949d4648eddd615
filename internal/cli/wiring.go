package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"quiz-leaderboard/internal/app"
	"quiz-leaderboard/internal/config"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/infra/file"
	"quiz-leaderboard/internal/infra/memory"
	pgstore "quiz-leaderboard/internal/infra/postgres"
	redisstore "quiz-leaderboard/internal/infra/redis"
	"quiz-leaderboard/internal/logger"
)

// stack bundles the service with the connections that must be closed.
type stack struct {
	service *app.LeaderboardService
	closers []func()
}

func (r *stack) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "quiz-leaderboard"})
	return cfg, nil
}

// buildStack selects the result store and quiz catalog from config and
// prepares storage before first use.
func buildStack(ctx context.Context, cfg config.Config) (*stack, error) {
	log := *logger.Get()
	rt := &stack{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			rt.Close()
			return nil, err
		}
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
	}

	var store app.ResultStore
	switch cfg.Storage.Backend {
	case config.BackendFile:
		store = file.NewResultStore(cfg.Storage.Path, log)
	case config.BackendMemory:
		store = memory.NewResultStore()
	case config.BackendRedis:
		if redisClient == nil {
			rt.Close()
			return nil, fmt.Errorf("redis backend selected but redis.addr is empty")
		}
		store = redisstore.NewResultStore(redisClient, cfg.Redis.Key, cfg.Redis.MaxRetries, log)
	case config.BackendPostgres:
		if pool == nil {
			rt.Close()
			return nil, fmt.Errorf("postgres backend selected but postgres.url is empty")
		}
		store = pgstore.NewResultStore(pool, log)
	default:
		rt.Close()
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err := store.EnsureStorage(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("prepare %s storage: %w", cfg.Storage.Backend, err)
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(configuredQuizzes(cfg))
	if pool != nil {
		loader = pgstore.NewQuizLoader(pool)
	}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalog app.QuizCatalog
	if redisClient != nil {
		catalog = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		catalog = memory.NewQuizRepository(loader, quizTTL)
	}

	rt.service = app.NewLeaderboardService(store, app.NewReporter(cfg.Leaderboard.Footer),
		app.WithCatalog(catalog),
		app.WithLimit(cfg.Leaderboard.Limit),
	)
	return rt, nil
}

// configuredQuizzes turns the quiz.titles config map into catalog entries.
func configuredQuizzes(cfg config.Config) map[string]domain.Quiz {
	quizzes := make(map[string]domain.Quiz, len(cfg.Quiz.Titles))
	for rawID, title := range cfg.Quiz.Titles {
		id := domain.CanonicalQuizID(rawID)
		quizzes[id] = domain.Quiz{ID: id, Title: title}
	}
	return quizzes
}
