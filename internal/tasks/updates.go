package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	Prepare Phase = iota
	CreateCards
	Finish
)

func (p Phase) String() string {
	switch p {
	case Prepare:
		return "prepare"
	case CreateCards:
		return "create_cards"
	case Finish:
		return "finish"
	default:
		return ""
	}
}

func prepareUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Prepare,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d flashcards with %d workers...", total, workers),
	}
}

func cardCreatedUpdate(step, total int, front string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateCards,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, front),
	}
}

func cardFailedUpdate(step, total int, front string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateCards,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, front, err),
	}
}

func finishUpdate(r *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finish,
		Step:    r.Total,
		Total:   r.Total,
		Message: fmt.Sprintf("Imported %d of %d flashcards (%d failed)", r.Created, r.Total, r.Failed),
	}
}
