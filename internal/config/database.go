package config

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver "postgres"
	"github.com/pressly/goose/v3"
	"github.com/rongwang/fintrack/internal/config/migrations"
	_ "modernc.org/sqlite" // SQLite driver "sqlite"
)

// SetupDatabase initializes the database connection and applies migrations
func SetupDatabase(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Database.Driver, cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	if cfg.Database.Driver == DriverSQLite {
		// one writer; also keeps in-memory databases on a single connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies every pending embedded migration
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	dialect, err := gooseDialect(db.DriverName())
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	}
	return "", fmt.Errorf("no migration dialect for driver %q", driver)
}
