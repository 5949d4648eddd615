package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"quiz-leaderboard/internal/domain"
)

const (
	// DefaultFooter is the call-to-action closing every rendered leaderboard.
	DefaultFooter = "Use /play to start a new quiz!"
	// EmptyLeaderboard is returned when a view has no entries.
	EmptyLeaderboard = "📊 *Leaderboard*\n\nNo quiz results recorded yet!"

	allQuizzesTitle = "All Quizzes"
)

var medals = map[int]string{1: "🥇 ", 2: "🥈 ", 3: "🥉 "}

// markdownEscaper escapes the characters Telegram's legacy Markdown treats as markup.
var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`)

// Reporter renders leaderboard views as Markdown text.
type Reporter struct {
	footer string
}

func NewReporter(footer string) *Reporter {
	if footer == "" {
		footer = DefaultFooter
	}
	return &Reporter{footer: footer}
}

// Render formats view as header, ranked entries and footer. Each entry is
// shown against its own question count.
func (r *Reporter) Render(view domain.LeaderboardView, quizID, quizTitle string) string {
	if len(view) == 0 {
		return EmptyLeaderboard
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Leaderboard: %s* 📊\n\n", markdownEscaper.Replace(resolveTitle(quizID, quizTitle)))
	for _, entry := range view {
		rec := entry.Record
		name := rec.UserName
		if name == "" {
			name = "Unknown"
		}
		seconds, _ := rec.Seconds()
		fmt.Fprintf(&b, "%s*%d. %s*\n", medals[entry.Rank], entry.Rank, markdownEscaper.Replace(name))
		fmt.Fprintf(&b, "   Score: %s  (%d/%d correct)\n", FormatScore(rec.Score), rec.CorrectAnswers, rec.TotalQuestions)
		fmt.Fprintf(&b, "   Time: %s\n\n", FormatDuration(seconds))
	}
	b.WriteString(r.footer)
	return b.String()
}

func resolveTitle(quizID, quizTitle string) string {
	switch {
	case quizTitle != "":
		return quizTitle
	case quizID != "":
		return "Quiz " + quizID
	default:
		return allQuizzesTitle
	}
}

// FormatScore renders integral scores without a decimal point and all others
// with one decimal place.
func FormatScore(score float64) string {
	if score == math.Trunc(score) {
		return strconv.FormatFloat(score, 'f', 0, 64)
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// FormatDuration renders seconds as "<m>m <s>s", truncating both parts.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	whole := int64(seconds)
	return fmt.Sprintf("%dm %ds", whole/60, whole%60)
}
