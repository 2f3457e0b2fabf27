// Package tasks runs long operations against the Parle API with real-time progress reporting.
//
// # Flashcard Import
//
// [Importer.Import] creates a batch of flashcards with a small worker pool:
//
//  1. A producer feeds cards to the workers, paced by a [rate.Limiter]
//  2. Each worker calls [CardCreator.Create] and reports one [CardResult]
//  3. Results are collected into an [ImportResult]; a failed card does not stop the batch
//
// Cancelling the context stops the producer. Cards not yet handed to a worker are
// reported as failed with the context error.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters and a message for display.
// Updates use select with default so a slow reader never stalls a worker.
//
// A 401 from the API ends the session through the client's unauthorized handler.
// The importer then skips the remaining cards instead of sending requests that cannot succeed.
package tasks
