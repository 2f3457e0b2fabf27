// Package session owns the client's authentication state.
//
// A [Store] is created once at startup from a [TokenStore]; it reads the persisted token a
// single time and from then on keeps its in-memory copy and the persisted copy in step.
// IsAuthenticated is derived from the token on every read and never cached.
//
// # Token storage
//
//   - [MemoryTokens] keeps the token in process memory
//   - [FileTokens] writes a JSON object keyed by storage key, locked with gofrs/flock
//   - repositories.CredentialRepository keeps it in the SQLite credentials table
//
// # Errors
//
// Register and Login record a display message readable through [Store.Err] (the server's
// "detail", or a generic fallback) and also return the underlying error.
package session
