package services

// Client groups the typed wrappers that share one [APIService].
type Client struct {
	API        *APIService
	Auth       *AuthAPI
	Flashcards *FlashcardsAPI
	Recordings *RecordingsAPI
	Journal    *JournalAPI
	Schedule   *ScheduleAPI
	Progress   *ProgressAPI
	Practice   *PracticeAPI
}

// NewClient builds every resource wrapper on top of api.
func NewClient(api *APIService) *Client {
	return &Client{
		API:        api,
		Auth:       NewAuthAPI(api),
		Flashcards: NewFlashcardsAPI(api),
		Recordings: NewRecordingsAPI(api),
		Journal:    NewJournalAPI(api),
		Schedule:   NewScheduleAPI(api),
		Progress:   NewProgressAPI(api),
		Practice:   NewPracticeAPI(api),
	}
}
