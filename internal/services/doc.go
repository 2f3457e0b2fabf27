// Package services is the HTTP layer of the Parle client.
//
// # APIService
//
// [APIService] owns the [http.Client], the base URL and the token store. Before every request it
// reads the stored token and, when one exists, sets "Authorization: Bearer <token>". Requests also
// carry "Accept: application/json" and a [RequestIDHeader] uuid. An optional [rate.Limiter]
// spaces requests out.
//
// A 401 response clears the stored token, then runs every [UnauthorizedHandler] registered with
// [APIService.OnUnauthorized] in order. The caller still receives the error. Navigation after a
// 401 is the handlers' job; this package never decides where the user goes.
//
// # Resource wrappers
//
// [AuthAPI], [FlashcardsAPI], [RecordingsAPI], [JournalAPI], [ScheduleAPI], [ProgressAPI] and
// [PracticeAPI] are thin typed wrappers; payloads pass through unmodified. [NewClient] builds all
// of them on one [APIService].
//
// # Error Handling
//
// Non-2xx responses come back as [*APIError], which matches with errors.Is:
//   - [shared.ErrAPIRequest] : any failed request, including transport errors
//   - [shared.ErrUnauthorized] : status 401
//   - [shared.ErrNotFound] : status 404
//
// [ErrorDetail] extracts the server's "detail" message, falling back to a caller default.
package services
