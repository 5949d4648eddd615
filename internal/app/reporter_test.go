package app

import (
	"strings"
	"testing"

	"quiz-leaderboard/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:      "0m 0s",
		65:     "1m 5s",
		3599.9: "59m 59s",
		59.99:  "0m 59s",
		3600:   "60m 0s",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	cases := map[float64]string{
		10.0:  "10",
		10.5:  "10.5",
		-2:    "-2",
		-2.3:  "-2.3",
		0:     "0",
	}
	for in, want := range cases {
		if got := FormatScore(in); got != want {
			t.Fatalf("FormatScore(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderEmptyView(t *testing.T) {
	got := NewReporter("").Render(nil, "Q1", "Anything")
	if got != EmptyLeaderboard {
		t.Fatalf("expected empty message, got %q", got)
	}
	if strings.ContainsAny(got, "🥇🥈🥉") {
		t.Fatalf("empty message must not contain rank markers")
	}
}

func TestRenderTitleResolution(t *testing.T) {
	view := Rank(domain.ResultSet{rec("Q1", "A", 1, 1)}, "", DefaultLimit)
	r := NewReporter("")

	cases := []struct {
		quizID, title, want string
	}{
		{"Q1", "Capitals", "📊 *Leaderboard: Capitals* 📊"},
		{"Q1", "", "📊 *Leaderboard: Quiz Q1* 📊"},
		{"", "", "📊 *Leaderboard: All Quizzes* 📊"},
	}
	for _, tc := range cases {
		got := r.Render(view, tc.quizID, tc.title)
		if !strings.HasPrefix(got, tc.want+"\n\n") {
			t.Fatalf("expected header %q, got %q", tc.want, got)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	a := rec("Q1", "A", 8, 50)
	a.CorrectAnswers = 8
	b := rec("Q2", "B", 7.5, 125.7)
	b.CorrectAnswers, b.TotalQuestions = 3, 4
	c := rec("Q1", "C", 7)
	c.UserName = ""
	d := rec("Q1", "D_underscore", 1, 1)

	view := Rank(domain.ResultSet{a, b, c, d}, "", DefaultLimit)
	got := NewReporter("Use /quiz to play!").Render(view, "", "")

	want := "📊 *Leaderboard: All Quizzes* 📊\n\n" +
		"🥇 *1. A*\n   Score: 8  (8/10 correct)\n   Time: 0m 50s\n\n" +
		"🥈 *2. B*\n   Score: 7.5  (3/4 correct)\n   Time: 2m 5s\n\n" +
		"🥉 *3. Unknown*\n   Score: 7  (0/10 correct)\n   Time: 0m 0s\n\n" +
		"*4. D\\_underscore*\n   Score: 1  (0/10 correct)\n   Time: 0m 1s\n\n" +
		"Use /quiz to play!"
	if got != want {
		t.Fatalf("unexpected render:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderDefaultFooter(t *testing.T) {
	view := Rank(domain.ResultSet{rec("Q1", "A", 1, 1)}, "", DefaultLimit)
	if got := NewReporter("").Render(view, "", ""); !strings.HasSuffix(got, "\n\n"+DefaultFooter) {
		t.Fatalf("expected default footer, got %q", got)
	}
}
