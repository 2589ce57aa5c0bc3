package database

import (
	"context"
	"embed"

	"bedtime-server/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator returns a migrator over the embedded schema files.
func NewMigrator(dsn string) *migration.Migrator {
	return migration.NewMigrator(migration.Config{
		MigrationsFS:   migrationsFS,
		MigrationsPath: "migrations",
	}, dsn)
}

// ApplyMigrations brings the schema up to date.
func ApplyMigrations(ctx context.Context, dsn string) error {
	return NewMigrator(dsn).Up(ctx)
}
