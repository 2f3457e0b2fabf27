package models

import "net/url"

// Flashcard is a spaced-repetition card.
type Flashcard struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Language    string    `json:"language"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
	AudioURL    string    `json:"audio_url,omitempty"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	NextReview  Timestamp `json:"next_review"`
	Interval    int       `json:"interval"`
	EaseFactor  float64   `json:"ease_factor"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// FlashcardCreate is the payload for POST /flashcards.
type FlashcardCreate struct {
	Language string   `json:"language"`
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	AudioURL string   `json:"audio_url,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category"`
}

// FlashcardUpdate is the payload for PUT /flashcards/{id}. Nil fields are left unchanged.
type FlashcardUpdate struct {
	Front    *string   `json:"front,omitempty"`
	Back     *string   `json:"back,omitempty"`
	AudioURL *string   `json:"audio_url,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Category *string   `json:"category,omitempty"`
}

// Review quality bounds accepted by POST /flashcards/{id}/review.
const (
	MinReviewQuality = 0
	MaxReviewQuality = 5
)

// FlashcardReview is the payload for POST /flashcards/{id}/review.
type FlashcardReview struct {
	Quality int `json:"quality"`
}

// FlashcardFilter narrows GET /flashcards.
type FlashcardFilter struct {
	Language string
	Category string
	Due      bool
}

// Query implements [Filter].
func (f FlashcardFilter) Query() url.Values {
	q := url.Values{}
	setString(q, "language", f.Language)
	setString(q, "category", f.Category)
	if f.Due {
		q.Set("due", "true")
	}
	return q
}
