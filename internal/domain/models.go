package domain

import (
	"encoding/json"
	"math"
	"time"
)

// ResultRecord is one completed quiz attempt by one user. Records are
// immutable once appended.
type ResultRecord struct {
	QuizID            string    `json:"quiz_id" validate:"required,max=128"`
	UserID            string    `json:"user_id" validate:"required,max=128"`
	UserName          string    `json:"user_name" validate:"max=256"`
	Score             float64   `json:"score" validate:"finite"`
	CorrectAnswers    int       `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	TotalQuestions    int       `json:"total_questions" validate:"gt=0"`
	CompletionSeconds *float64  `json:"completion_seconds,omitempty" validate:"required,finite,gte=0"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// UnmarshalJSON accepts the legacy completion_time and timestamp keys.
// Missing numeric fields keep their zero value; a missing completion time
// stays absent.
func (r *ResultRecord) UnmarshalJSON(data []byte) error {
	type plain ResultRecord
	var raw struct {
		plain
		LegacyCompletion *float64  `json:"completion_time"`
		LegacyTimestamp  string   `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ResultRecord(raw.plain)
	if r.CompletionSeconds == nil && raw.LegacyCompletion != nil {
		r.CompletionSeconds = raw.LegacyCompletion
	}
	if r.RecordedAt.IsZero() && raw.LegacyTimestamp != "" {
		r.RecordedAt = parseLegacyTimestamp(raw.LegacyTimestamp)
	}
	return nil
}

// legacyLayouts covers RFC 3339 and the zone-less ISO form older
// writers produced.
var legacyLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"}

func parseLegacyTimestamp(raw string) time.Time {
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Seconds returns the completion time and whether one was recorded.
func (r ResultRecord) Seconds() (float64, bool) {
	if r.CompletionSeconds == nil {
		return 0, false
	}
	return *r.CompletionSeconds, true
}

// RankingSeconds treats an absent completion time as infinitely slow.
func (r ResultRecord) RankingSeconds() float64 {
	if s, ok := r.Seconds(); ok {
		return s
	}
	return math.Inf(1)
}

// ResultSet is the full collection of records in insertion order.
type ResultSet []ResultRecord

// RankedEntry pairs a 1-based rank with its record.
type RankedEntry struct {
	Rank   int          `json:"rank"`
	Record ResultRecord `json:"record"`
}

// LeaderboardView is a ranked subset derived for a single query.
type LeaderboardView []RankedEntry

// Submission is the inbound result event from the front end.
type Submission struct {
	QuizID         string    `json:"quizId"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	StartedAt      time.Time `json:"startedAt"`
	EndedAt        time.Time `json:"endedAt"`
}

// CompletionSeconds returns the elapsed time between start and end, or 0
// when either timestamp is missing or the pair is inverted.
func (s Submission) CompletionSeconds() float64 {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt).Seconds()
}

// LeaderboardQuery asks for a rendered leaderboard. Empty QuizID means all
// quizzes; Limit 0 means the configured default.
type LeaderboardQuery struct {
	QuizID string `json:"quizId"`
	Title  string `json:"title"`
	Limit  int    `json:"limit"`
}

// Quiz is the catalog entry used to resolve leaderboard titles.
type Quiz struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}
