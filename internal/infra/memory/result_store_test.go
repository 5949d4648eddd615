package memory

import (
	"context"
	"testing"

	"quiz-leaderboard/internal/domain"
)

func TestResultStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	for _, user := range []string{"u1", "u2", "u3"} {
		if err := store.Append(ctx, domain.ResultRecord{QuizID: "Q1", UserID: user}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got := store.Load(ctx)
	if len(got) != 3 || got[0].UserID != "u1" || got[2].UserID != "u3" {
		t.Fatalf("expected insertion order, got %+v", got)
	}

	got[0].UserID = "mutated"
	if again := store.Load(ctx); again[0].UserID != "u1" {
		t.Fatalf("expected load to return a copy, got %+v", again[0])
	}
}
