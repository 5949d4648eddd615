package app

import (
	"sort"

	"quiz-leaderboard/internal/domain"
)

// DefaultLimit is the number of entries a leaderboard shows unless overridden.
const DefaultLimit = 15

// Rank filters results to quizID (all quizzes when empty), orders them by
// score descending then completion time ascending, and keeps the first limit
// entries. Records without a completion time rank after every timed record
// with the same score. Remaining ties keep insertion order. The input is
// never modified.
func Rank(results domain.ResultSet, quizID string, limit int) domain.LeaderboardView {
	if limit <= 0 {
		return domain.LeaderboardView{}
	}

	filtered := make([]domain.ResultRecord, 0, len(results))
	for _, r := range results {
		if quizID == "" || domain.CanonicalQuizID(r.QuizID) == quizID {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Score != filtered[j].Score {
			return filtered[i].Score > filtered[j].Score
		}
		return filtered[i].RankingSeconds() < filtered[j].RankingSeconds()
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	view := make(domain.LeaderboardView, len(filtered))
	for i, r := range filtered {
		view[i] = domain.RankedEntry{Rank: i + 1, Record: r}
	}
	return view
}
