package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/infra/file"
	"quiz-leaderboard/internal/logger"
)

func writeConfig(t *testing.T, dataPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "log:\n  level: error\nstorage:\n  backend: file\n  path: " + dataPath +
		"\nquiz:\n  titles:\n    \"007\": Capitals\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestShowPrintsLeaderboard(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "results.json")
	store := file.NewResultStore(dataPath, logger.Nop())
	seconds := 75.0
	if err := store.Append(context.Background(), domain.ResultRecord{
		QuizID: "7", UserID: "1", UserName: "Ada", Score: 9.5, CorrectAnswers: 9, TotalQuestions: 10,
		CompletionSeconds: &seconds, RecordedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show", "--config", writeConfig(t, dataPath), "--quiz", "7"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Leaderboard: Capitals", "🥇 *1. Ada*", "Score: 9.5  (9/10 correct)", "Time: 1m 15s"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestShowEmptyStorageCreatesLocation(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "nested", "results.json")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show", "--config", writeConfig(t, dataPath)})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "No quiz results recorded yet!") {
		t.Fatalf("expected empty message, got %q", out.String())
	}
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatalf("expected storage file created: %v", err)
	}
}

func TestUnknownBackendFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: floppy\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"show", "--config", path})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "floppy") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}
