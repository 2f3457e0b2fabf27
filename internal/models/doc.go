// Package models defines the transport types exchanged with the Parle API.
//
// The types fall into three groups:
//
// 1. Identity: [User], [UserCreate] and [Token], used by the session layer.
//
// 2. Study records: [Flashcard], [Recording], [JournalEntry], [ScheduleBlock] and [Progress],
// each with create/update payloads and, where the API supports filtering, a [Filter] that
// renders itself as query parameters.
//
// 3. Practice exchanges: OCR, speech, text-to-speech and summary payloads. Analysis results
// are [Payload] values passed through unmodified.
//
// None of these types carry client-side invariants; validation beyond the flashcard review
// quality range is left to the server.
package models
