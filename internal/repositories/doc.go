// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [CredentialRepository] : bearer tokens keyed by storage key; satisfies session.TokenStore
//
// Tables are created by the embedded migrations in the shared package.
package repositories
