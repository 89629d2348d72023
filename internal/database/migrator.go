package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
)

// VersionTable records which cats migrations have run.
const VersionTable = "cats_schema_version"

//go:embed migrations/*.sql
var migrations embed.FS

// migrationSource returns the embedded SQL files rooted at migrations/.
func migrationSource() (fs.FS, error) {
	return fs.Sub(migrations, "migrations")
}

// Migrate applies every pending migration on a dedicated connection.
//
// Each step is logged as it starts; the summary names the version before and
// after. Nothing is rolled back on failure: tern runs each file in its own
// transaction, so the schema stays at the last good version.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	if cfg.Database == nil {
		return fmt.Errorf("cannot migrate: no database block configured")
	}
	return MigrateDSN(ctx, logger, cfg.Database.DSN())
}

// MigrateDSN is Migrate against an explicit postgres URL.
func MigrateDSN(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close(ctx)

	migrator, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	source, err := migrationSource()
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	if err := migrator.LoadMigrations(source); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	migrator.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().
			Int32("sequence", sequence).
			Str("migration", name).
			Str("direction", direction).
			Msg("applying migration")
	}

	before, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate cats schema: %w", err)
	}

	latest := int32(len(migrator.Migrations))
	logger.Info().
		Int32("from", before).
		Int32("to", latest).
		Bool("changed", before != latest).
		Msg("cats schema ready")

	return nil
}
