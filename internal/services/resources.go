package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
)

var errMissingID = fmt.Errorf("%w: id", shared.ErrMissingArgument)

// resource implements list/get/create/update/delete for one collection path.
//
// T is the response type; the API returns it for get, create and update.
type resource[T any] struct {
	api  *APIService
	base string
}

func (r resource[T]) itemPath(id string) string {
	return r.base + "/" + url.PathEscape(id)
}

func (r resource[T]) list(ctx context.Context, f models.Filter) ([]T, error) {
	var query url.Values
	if f != nil {
		query = f.Query()
	}
	items := []T{}
	if err := r.api.DoJSON(ctx, http.MethodGet, r.base, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r resource[T]) get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, errMissingID
	}
	var item T
	if err := r.api.DoJSON(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r resource[T]) create(ctx context.Context, in any) (*T, error) {
	var item T
	if err := r.api.DoJSON(ctx, http.MethodPost, r.base, nil, in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r resource[T]) update(ctx context.Context, id string, in any) (*T, error) {
	return r.call(ctx, http.MethodPut, id, "", in)
}

// call sends method to the item path, optionally suffixed with an action ("review", "complete").
func (r resource[T]) call(ctx context.Context, method, id, action string, in any) (*T, error) {
	if id == "" {
		return nil, errMissingID
	}
	path := r.itemPath(id)
	if action != "" {
		path += "/" + action
	}
	var item T
	if err := r.api.DoJSON(ctx, method, path, nil, in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r resource[T]) delete(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return r.api.DoJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// FlashcardsAPI wraps /flashcards.
type FlashcardsAPI struct {
	r resource[models.Flashcard]
}

// NewFlashcardsAPI creates a [FlashcardsAPI] on top of api.
func NewFlashcardsAPI(api *APIService) *FlashcardsAPI {
	return &FlashcardsAPI{r: resource[models.Flashcard]{api: api, base: "/flashcards"}}
}

func (s *FlashcardsAPI) List(ctx context.Context, f models.FlashcardFilter) ([]models.Flashcard, error) {
	return s.r.list(ctx, f)
}

func (s *FlashcardsAPI) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	return s.r.get(ctx, id)
}

func (s *FlashcardsAPI) Create(ctx context.Context, in models.FlashcardCreate) (*models.Flashcard, error) {
	return s.r.create(ctx, in)
}

func (s *FlashcardsAPI) Update(ctx context.Context, id string, in models.FlashcardUpdate) (*models.Flashcard, error) {
	return s.r.update(ctx, id, in)
}

// Review records a recall attempt; quality ranges from 0 (blackout) to 5 (perfect).
// The server reschedules the card and returns it.
func (s *FlashcardsAPI) Review(ctx context.Context, id string, quality int) (*models.Flashcard, error) {
	if quality < models.MinReviewQuality || quality > models.MaxReviewQuality {
		return nil, fmt.Errorf("%w: quality %d outside %d..%d", shared.ErrInvalidInput, quality, models.MinReviewQuality, models.MaxReviewQuality)
	}
	return s.r.call(ctx, http.MethodPost, id, "review", models.FlashcardReview{Quality: quality})
}

func (s *FlashcardsAPI) Delete(ctx context.Context, id string) error {
	return s.r.delete(ctx, id)
}

// JournalAPI wraps /journal.
type JournalAPI struct {
	r resource[models.JournalEntry]
}

// NewJournalAPI creates a [JournalAPI] on top of api.
func NewJournalAPI(api *APIService) *JournalAPI {
	return &JournalAPI{r: resource[models.JournalEntry]{api: api, base: "/journal"}}
}

func (s *JournalAPI) List(ctx context.Context) ([]models.JournalEntry, error) {
	return s.r.list(ctx, nil)
}

func (s *JournalAPI) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	return s.r.get(ctx, id)
}

func (s *JournalAPI) Create(ctx context.Context, in models.JournalEntryCreate) (*models.JournalEntry, error) {
	return s.r.create(ctx, in)
}

func (s *JournalAPI) Update(ctx context.Context, id string, in models.JournalEntryUpdate) (*models.JournalEntry, error) {
	return s.r.update(ctx, id, in)
}

func (s *JournalAPI) Delete(ctx context.Context, id string) error {
	return s.r.delete(ctx, id)
}

// ScheduleAPI wraps /schedule.
type ScheduleAPI struct {
	r resource[models.ScheduleBlock]
}

// NewScheduleAPI creates a [ScheduleAPI] on top of api.
func NewScheduleAPI(api *APIService) *ScheduleAPI {
	return &ScheduleAPI{r: resource[models.ScheduleBlock]{api: api, base: "/schedule"}}
}

func (s *ScheduleAPI) List(ctx context.Context, f models.ScheduleFilter) ([]models.ScheduleBlock, error) {
	return s.r.list(ctx, f)
}

func (s *ScheduleAPI) Get(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	return s.r.get(ctx, id)
}

func (s *ScheduleAPI) Create(ctx context.Context, in models.ScheduleBlockCreate) (*models.ScheduleBlock, error) {
	return s.r.create(ctx, in)
}

func (s *ScheduleAPI) Update(ctx context.Context, id string, in models.ScheduleBlockUpdate) (*models.ScheduleBlock, error) {
	return s.r.update(ctx, id, in)
}

// Complete marks a block done (PATCH, no body).
func (s *ScheduleAPI) Complete(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	return s.r.call(ctx, http.MethodPatch, id, "complete", nil)
}

func (s *ScheduleAPI) Delete(ctx context.Context, id string) error {
	return s.r.delete(ctx, id)
}

// ProgressAPI wraps /progress.
type ProgressAPI struct {
	r resource[models.Progress]
}

// NewProgressAPI creates a [ProgressAPI] on top of api.
func NewProgressAPI(api *APIService) *ProgressAPI {
	return &ProgressAPI{r: resource[models.Progress]{api: api, base: "/progress"}}
}

func (s *ProgressAPI) List(ctx context.Context, f models.ProgressFilter) ([]models.Progress, error) {
	return s.r.list(ctx, f)
}

// Stats returns the aggregate document computed by the server, unmodified.
func (s *ProgressAPI) Stats(ctx context.Context, f models.StatsFilter) (models.Payload, error) {
	var stats models.Payload
	if err := s.r.api.DoJSON(ctx, http.MethodGet, "/progress/stats", f.Query(), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ProgressAPI) Get(ctx context.Context, id string) (*models.Progress, error) {
	return s.r.get(ctx, id)
}

func (s *ProgressAPI) Create(ctx context.Context, in models.ProgressCreate) (*models.Progress, error) {
	return s.r.create(ctx, in)
}

func (s *ProgressAPI) Update(ctx context.Context, id string, in models.ProgressUpdate) (*models.Progress, error) {
	return s.r.update(ctx, id, in)
}

func (s *ProgressAPI) Delete(ctx context.Context, id string) error {
	return s.r.delete(ctx, id)
}
