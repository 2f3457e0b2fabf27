package models

// JournalEntry is a free-form practice log.
type JournalEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	Practiced    []string  `json:"practiced"`
	Difficulties []string  `json:"difficulties"`
	Improvements []string  `json:"improvements"`
	NewPhrases   []string  `json:"new_phrases"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// JournalEntryCreate is the payload for POST /journal.
type JournalEntryCreate struct {
	Content      string   `json:"content"`
	Practiced    []string `json:"practiced,omitempty"`
	Difficulties []string `json:"difficulties,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
	NewPhrases   []string `json:"new_phrases,omitempty"`
}

// JournalEntryUpdate is the payload for PUT /journal/{id}. Nil fields are left unchanged.
type JournalEntryUpdate struct {
	Content      *string   `json:"content,omitempty"`
	Practiced    *[]string `json:"practiced,omitempty"`
	Difficulties *[]string `json:"difficulties,omitempty"`
	Improvements *[]string `json:"improvements,omitempty"`
	NewPhrases   *[]string `json:"new_phrases,omitempty"`
}
