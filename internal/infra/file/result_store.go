// Package file persists the result set as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

// ResultStore keeps every result in one JSON array. Appends rewrite the whole
// file through a temp file and rename, so a failed write never leaves a
// partially overwritten document behind. The mutex makes load+append atomic
// within one process.
type ResultStore struct {
	path string
	log  logger.Logger
	mu   sync.Mutex
	sf   singleflight.Group
}

func NewResultStore(path string, log logger.Logger) *ResultStore {
	return &ResultStore{
		path: path,
		log:  log.With().Str("backend", "file").Str("path", path).Logger(),
	}
}

// Path returns the backing file location.
func (s *ResultStore) Path() string {
	return s.path
}

// EnsureStorage creates the parent directory and an empty document if absent.
func (s *ResultStore) EnsureStorage(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat storage: %w", err)
	}
	return s.writeLocked(domain.ResultSet{})
}

// Load returns the stored results. Concurrent loads share one file read.
func (s *ResultStore) Load(context.Context) domain.ResultSet {
	v, _, _ := s.sf.Do("load", func() (interface{}, error) {
		results, _ := s.read()
		return results, nil
	})
	shared := v.(domain.ResultSet)
	out := make(domain.ResultSet, len(shared))
	copy(out, shared)
	return out
}

func (s *ResultStore) Append(_ context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, corrupt := s.read()
	if corrupt {
		s.quarantine()
	}
	results = append(results, record)
	return s.writeLocked(results)
}

// read reports corrupt=true when the file exists but cannot be decoded.
func (s *ResultStore) read() (domain.ResultSet, bool) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ResultSet{}, false
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("result storage unreadable, treating as empty")
		return domain.ResultSet{}, false
	}

	var results domain.ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		s.log.Warn().Err(err).Msg("result storage malformed, treating as empty")
		return domain.ResultSet{}, true
	}
	if results == nil {
		results = domain.ResultSet{}
	}
	return results, false
}

// quarantine moves a malformed document aside before it is replaced.
func (s *ResultStore) quarantine() {
	dest := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixNano())
	if err := os.Rename(s.path, dest); err != nil {
		s.log.Error().Err(err).Msg("could not move malformed result storage aside")
		return
	}
	s.log.Warn().Str("moved_to", dest).Msg("malformed result storage moved aside")
}

func (s *ResultStore) writeLocked(results domain.ResultSet) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode results: %w", domain.ErrStorageWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	return nil
}
