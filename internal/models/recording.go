package models

import "net/url"

// Recording is a stored speaking exercise.
type Recording struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Language     string    `json:"language"`
	ExerciseType string    `json:"exercise_type"`
	Duration     int       `json:"duration"`
	Transcript   string    `json:"transcript,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	AudioURL     string    `json:"audio_url"`
	CreatedAt    Timestamp `json:"created_at"`
}

// RecordingCreate is the payload for POST /recordings.
type RecordingCreate struct {
	Language     string `json:"language"`
	ExerciseType string `json:"exercise_type"`
	Duration     int    `json:"duration"`
	Transcript   string `json:"transcript,omitempty"`
	Notes        string `json:"notes,omitempty"`
	AudioURL     string `json:"audio_url"`
}

// RecordingUpdate is the payload for PUT /recordings/{id}. Nil fields are left unchanged.
type RecordingUpdate struct {
	Language     *string `json:"language,omitempty"`
	ExerciseType *string `json:"exercise_type,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	Transcript   *string `json:"transcript,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// RecordingFilter narrows GET /recordings.
type RecordingFilter struct {
	Language     string
	ExerciseType string
}

// Query implements [Filter].
func (f RecordingFilter) Query() url.Values {
	q := url.Values{}
	setString(q, "language", f.Language)
	setString(q, "exercise_type", f.ExerciseType)
	return q
}
