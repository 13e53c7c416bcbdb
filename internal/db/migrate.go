package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// and postgresql:// database drivers.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var requiredTables = []string{"customers", "products", "invoices", "invoice_items"}

// MigrateOptions selects how the schema is applied.
type MigrateOptions struct {
	// URL is the DATABASE_URL the connection was opened with.
	URL string
	// SQL runs the embedded SQL migrations instead of AutoMigrate.
	// Only Postgres ships SQL migrations; other drivers fall back to AutoMigrate.
	SQL    bool
	Logger *logger.Logger
}

// Migrate brings the schema up to date. Running it twice is harmless.
func Migrate(ctx context.Context, conn *gorm.DB, opts MigrateOptions) error {
	driver, err := DetectDriver(opts.URL)
	if err != nil {
		return err
	}

	switch {
	case opts.SQL && driver == DriverPostgres:
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(opts.URL))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	default:
		if opts.SQL && opts.Logger != nil {
			opts.Logger.Warn(opts.Logger.WithField(ctx, "driver", string(driver)), "db.migrate.sql_unavailable")
		}
		if err := autoMigrate(ctx, conn); err != nil {
			return err
		}
	}

	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	if opts.Logger != nil {
		opts.Logger.Info(ctx, "db.migrated")
	}
	return nil
}

func autoMigrate(ctx context.Context, conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.WithContext(ctx).AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// runSQLMigrations executes the embedded migrations with golang-migrate.
func runSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
