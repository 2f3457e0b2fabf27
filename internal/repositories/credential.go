package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/parle/internal/shared"
)

// CredentialRepository stores the token for one storage key in the credentials table.
type CredentialRepository struct {
	db  *sql.DB
	key string
}

// NewCredentialRepository creates a [CredentialRepository] bound to key.
func NewCredentialRepository(db *sql.DB, key string) *CredentialRepository {
	return &CredentialRepository{db: db, key: key}
}

// Load returns the stored token, or "" when the key has no row.
func (r *CredentialRepository) Load() (string, error) {
	var token string
	err := r.db.QueryRow(`SELECT token FROM credentials WHERE key = ?`, r.key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to query credential: %w", shared.ErrTokenStore, err)
	}
	return token, nil
}

// Save inserts or replaces the token, keeping the original created_at.
func (r *CredentialRepository) Save(token string) error {
	query := `
		INSERT INTO credentials (key, token, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	if _, err := r.db.Exec(query, r.key, token, now, now); err != nil {
		return fmt.Errorf("%w: failed to save credential: %w", shared.ErrTokenStore, err)
	}
	return nil
}

// Clear deletes the row. Clearing a missing key succeeds.
func (r *CredentialRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM credentials WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("%w: failed to delete credential: %w", shared.ErrTokenStore, err)
	}
	return nil
}

// UpdatedAt reports when the token was last written; zero when none is stored.
func (r *CredentialRepository) UpdatedAt() (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(`SELECT updated_at FROM credentials WHERE key = ?`, r.key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to query credential: %w", shared.ErrTokenStore, err)
	}
	return updatedAt, nil
}
