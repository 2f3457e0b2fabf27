package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/parle/internal/shared"
)

// Open creates the database at path, applies pool limits and runs pending migrations.
func Open(path string, maxOpenConns, maxIdleConns int) (*sql.DB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, maxOpenConns, maxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
