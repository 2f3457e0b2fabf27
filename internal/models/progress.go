package models

import (
	"net/url"
	"time"
)

// Progress is one day of study totals.
type Progress struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Language           string    `json:"language"`
	Date               Timestamp `json:"date"`
	HoursStudied       float64   `json:"hours_studied"`
	CardsReviewed      int       `json:"cards_reviewed"`
	ExercisesCompleted int       `json:"exercises_completed"`
	CreatedAt          Timestamp `json:"created_at"`
}

// ProgressCreate is the payload for POST /progress.
type ProgressCreate struct {
	Language           string    `json:"language"`
	Date               Timestamp `json:"date"`
	HoursStudied       float64   `json:"hours_studied"`
	CardsReviewed      int       `json:"cards_reviewed"`
	ExercisesCompleted int       `json:"exercises_completed"`
}

// ProgressUpdate is the payload for PUT /progress/{id}. Nil fields are left unchanged.
type ProgressUpdate struct {
	HoursStudied       *float64 `json:"hours_studied,omitempty"`
	CardsReviewed      *int     `json:"cards_reviewed,omitempty"`
	ExercisesCompleted *int     `json:"exercises_completed,omitempty"`
}

// ProgressFilter narrows GET /progress.
type ProgressFilter struct {
	Language  string
	StartDate time.Time
	EndDate   time.Time
}

// Query implements [Filter].
func (f ProgressFilter) Query() url.Values {
	q := url.Values{}
	setString(q, "language", f.Language)
	setTime(q, "start_date", f.StartDate)
	setTime(q, "end_date", f.EndDate)
	return q
}

// Periods accepted by GET /progress/stats.
var StatsPeriods = []string{"week", "month", "3months", "year", "all"}

// StatsFilter narrows GET /progress/stats. The server defaults Period to "month".
type StatsFilter struct {
	Language string
	Period   string
}

// Query implements [Filter].
func (f StatsFilter) Query() url.Values {
	q := url.Values{}
	setString(q, "language", f.Language)
	setString(q, "period", f.Period)
	return q
}
