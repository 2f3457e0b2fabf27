package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 8
	DefaultRateLimit = 5.0 // requests per second
)

// CardCreator is the slice of the flashcards API the importer needs.
type CardCreator interface {
	Create(ctx context.Context, in models.FlashcardCreate) (*models.Flashcard, error)
}

// ImportOpts contains configuration for a bulk flashcard import.
type ImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 8)
	RateLimit  float64 // Requests per second (default: 5)
}

// CardResult is the outcome for one input card.
type CardResult struct {
	Index int                    // Position in the input
	Input models.FlashcardCreate // Card as submitted
	Card  *models.Flashcard      // Created card, nil on failure
	Error error
}

// ImportResult summarizes an import. Results are ordered by input position.
type ImportResult struct {
	Total   int
	Created int
	Failed  int
	Results []CardResult
}

// Errors returns the failed results.
func (r *ImportResult) Errors() []CardResult {
	failed := []CardResult{}
	for _, res := range r.Results {
		if res.Error != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Importer creates flashcards concurrently.
type Importer struct {
	cards CardCreator
}

// NewImporter creates an [Importer] writing through cards.
func NewImporter(cards CardCreator) *Importer {
	return &Importer{cards: cards}
}

type importJob struct {
	index int
	input models.FlashcardCreate
}

// Import creates every card in inputs and reports progress on prog, which may be nil.
//
// It returns an error only when nothing could be attempted. Per-card failures are in the result.
func (im *Importer) Import(ctx context.Context, prog chan<- ProgressUpdate, inputs []models.FlashcardCreate, opts ImportOpts) (*ImportResult, error) {
	if im.cards == nil {
		return nil, fmt.Errorf("%w: flashcards API not initialized", shared.ErrServiceUnavailable)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no flashcards to import", shared.ErrInvalidInput)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	result := &ImportResult{
		Total:   len(inputs),
		Results: make([]CardResult, 0, len(inputs)),
	}
	sendProgress(prog, prepareUpdate(len(inputs), opts.NumWorkers))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan importJob)
	results := make(chan CardResult, len(inputs))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go im.worker(ctx, cancel, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, in := range inputs {
			if err := limiter.Wait(ctx); err != nil {
				skipFrom(ctx, i, inputs, results)
				return
			}
			select {
			case jobs <- importJob{index: i, input: in}:
			case <-ctx.Done():
				skipFrom(ctx, i, inputs, results)
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.Created++
			sendProgress(prog, cardCreatedUpdate(completed, len(inputs), res.Input.Front))
		} else {
			result.Failed++
			sendProgress(prog, cardFailedUpdate(completed, len(inputs), res.Input.Front, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Index < result.Results[j].Index
	})
	sendProgress(prog, finishUpdate(result))
	return result, nil
}

// worker creates cards from jobs. An unauthorized response cancels the whole import.
func (im *Importer) worker(
	ctx context.Context,
	cancel context.CancelCauseFunc,
	wg *sync.WaitGroup,
	jobs <-chan importJob,
	results chan<- CardResult,
) {
	defer wg.Done()

	for job := range jobs {
		res := CardResult{Index: job.index, Input: job.input}
		if err := context.Cause(ctx); err != nil {
			res.Error = err
			results <- res
			continue
		}

		card, err := im.cards.Create(ctx, job.input)
		if err != nil {
			res.Error = err
			if errors.Is(err, shared.ErrUnauthorized) {
				cancel(fmt.Errorf("%w: import stopped", shared.ErrNotAuthenticated))
			}
		} else {
			res.Card = card
		}
		results <- res
	}
}

// skipFrom reports inputs[i:] as failed with the reason the context ended.
func skipFrom(ctx context.Context, i int, inputs []models.FlashcardCreate, results chan<- CardResult) {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = ctx.Err()
	}
	for j := i; j < len(inputs); j++ {
		results <- CardResult{Index: j, Input: inputs[j], Error: cause}
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
