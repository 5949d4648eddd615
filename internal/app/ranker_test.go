package app

import (
	"math/rand"
	"reflect"
	"testing"

	"quiz-leaderboard/internal/domain"
)

func rec(quiz, user string, score float64, seconds ...float64) domain.ResultRecord {
	r := domain.ResultRecord{QuizID: quiz, UserID: user, UserName: user, Score: score, TotalQuestions: 10}
	if len(seconds) > 0 {
		s := seconds[0]
		r.CompletionSeconds = &s
	}
	return r
}

func users(view domain.LeaderboardView) []string {
	out := make([]string, len(view))
	for i, e := range view {
		out[i] = e.Record.UserID
	}
	return out
}

func TestRankOrdersByScoreThenTime(t *testing.T) {
	results := domain.ResultSet{
		rec("Q1", "A", 8, 50),
		rec("Q1", "B", 8, 40),
		rec("Q1", "C", 9, 60),
	}
	view := Rank(results, "Q1", DefaultLimit)
	if got := users(view); !reflect.DeepEqual(got, []string{"C", "B", "A"}) {
		t.Fatalf("expected C, B, A, got %v", got)
	}
	for i, e := range view {
		if e.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, e.Rank)
		}
	}
}

func TestRankAbsentTimeSortsLastAndTiesKeepInsertionOrder(t *testing.T) {
	results := domain.ResultSet{
		rec("Q1", "untimed", 5),
		rec("Q1", "first", 5, 30),
		rec("Q1", "second", 5, 30),
		rec("Q1", "slow", 5, 31),
	}
	got := users(Rank(results, "", DefaultLimit))
	want := []string{"first", "second", "slow", "untimed"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRankFilterIsOrderedSubsequence(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var results domain.ResultSet
	for i := 0; i < 60; i++ {
		quiz := []string{"Q1", "Q2", "7"}[rnd.Intn(3)]
		results = append(results, rec(quiz, string(rune('a'+i%26))+quiz, float64(rnd.Intn(5))-1, float64(rnd.Intn(4))*10))
	}

	all := Rank(results, "", len(results))
	var expected []domain.ResultRecord
	for _, e := range all {
		if e.Record.QuizID == "Q2" {
			expected = append(expected, e.Record)
		}
	}

	filtered := Rank(results, "Q2", len(results))
	if len(filtered) != len(expected) {
		t.Fatalf("expected %d Q2 entries, got %d", len(expected), len(filtered))
	}
	for i, e := range filtered {
		if e.Record.QuizID != "Q2" {
			t.Fatalf("filter leaked quiz %q", e.Record.QuizID)
		}
		if !reflect.DeepEqual(e.Record, expected[i]) {
			t.Fatalf("position %d: expected %+v, got %+v", i, expected[i], e.Record)
		}
	}

	for i := 1; i < len(all); i++ {
		a, b := all[i-1].Record, all[i].Record
		if a.Score < b.Score || (a.Score == b.Score && a.RankingSeconds() > b.RankingSeconds()) {
			t.Fatalf("ordering violated between %+v and %+v", a, b)
		}
	}
}

func TestRankMatchesCanonicalStoredIDs(t *testing.T) {
	results := domain.ResultSet{rec("007", "legacy", 1, 1), rec("7", "new", 2, 1)}
	if got := users(Rank(results, "7", DefaultLimit)); !reflect.DeepEqual(got, []string{"new", "legacy"}) {
		t.Fatalf("expected both spellings of quiz 7, got %v", got)
	}
}

func TestRankTruncation(t *testing.T) {
	var results domain.ResultSet
	for i := 0; i < 20; i++ {
		results = append(results, rec("Q1", string(rune('a'+i)), float64(i), 1))
	}
	results = append(results, rec("Q2", "other", 100, 1))

	cases := []struct {
		limit int
		want  int
	}{
		{15, 15},
		{50, 20},
		{1, 1},
		{0, 0},
		{-3, 0},
	}
	for _, tc := range cases {
		if got := len(Rank(results, "Q1", tc.limit)); got != tc.want {
			t.Fatalf("limit %d: expected %d entries, got %d", tc.limit, tc.want, got)
		}
	}
}

func TestRankEmptyAndNonMutating(t *testing.T) {
	if view := Rank(nil, "Q1", DefaultLimit); len(view) != 0 {
		t.Fatalf("expected empty view, got %d", len(view))
	}

	results := domain.ResultSet{rec("Q1", "low", 1, 1), rec("Q1", "high", 9, 1)}
	before := append(domain.ResultSet(nil), results...)
	_ = Rank(results, "", DefaultLimit)
	if !reflect.DeepEqual(results, before) {
		t.Fatalf("rank mutated its input")
	}
}
