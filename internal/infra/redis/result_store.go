package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

// ResultStore keeps the whole result set as one JSON value:
//
//	SET {key} [{...}, {...}]
//
// Appends WATCH the key and rewrite it inside MULTI/EXEC, retrying when
// another writer got there first, so concurrent submissions across
// processes are never lost.
type ResultStore struct {
	client     *redis.Client
	key        string
	maxRetries int
	log        logger.Logger
}

func NewResultStore(client *redis.Client, key string, maxRetries int, log logger.Logger) *ResultStore {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &ResultStore{
		client:     client,
		key:        key,
		maxRetries: maxRetries,
		log:        log.With().Str("backend", "redis").Str("key", key).Logger(),
	}
}

func (s *ResultStore) EnsureStorage(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (s *ResultStore) Load(ctx context.Context) domain.ResultSet {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ResultSet{}
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("result storage unreadable, treating as empty")
		return domain.ResultSet{}
	}
	results, err := decode(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("result storage malformed, treating as empty")
		return domain.ResultSet{}
	}
	return results
}

func (s *ResultStore) Append(ctx context.Context, record domain.ResultRecord) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, s.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		results, decodeErr := decode(data)
		if decodeErr != nil {
			s.log.Warn().Err(decodeErr).Msg("result storage malformed, moving aside")
		}
		payload, err := json.Marshal(append(results, record))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if decodeErr != nil {
				pipe.Set(ctx, s.key+":corrupt:"+strconv.FormatInt(time.Now().UnixNano(), 10), data, 0)
			}
			pipe.Set(ctx, s.key, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < s.maxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	return fmt.Errorf("%w: gave up after %d contended attempts", domain.ErrStorageWrite, s.maxRetries)
}

// decode treats an empty value as an empty set.
func decode(data []byte) (domain.ResultSet, error) {
	if len(data) == 0 {
		return domain.ResultSet{}, nil
	}
	var results domain.ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return domain.ResultSet{}, err
	}
	if results == nil {
		results = domain.ResultSet{}
	}
	return results, nil
}
