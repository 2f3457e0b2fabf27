package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/parle/internal/repositories"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	r.logger.Info("creating config file", "path", path)

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Config written to %s", path))
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := repositories.Open(path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	if r.config.Session.Storage != shared.StorageSQLite {
		r.logger.Warn("tokens are stored in a file, set session.storage = \"sqlite\" to use the database")
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Database ready at %s", path))
}
