package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/url"

	"trainer-booking/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationSource exposes the embedded schema files to golang-migrate.
func MigrationSource() (source.Driver, error) {
	return iofs.New(migrations, "migrations")
}

// MigrationURL builds the pgx5:// target golang-migrate dials.
func MigrationURL(config utils.DatabaseConfig) string {
	target := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(config.User, config.Password),
		Host:     net.JoinHostPort(config.Host, config.Port),
		Path:     "/" + config.Name,
		RawQuery: url.Values{"sslmode": {"disable"}, "connect_timeout": {"5"}}.Encode(),
	}
	return target.String()
}

// Migrate brings the schema up to the latest embedded version. Cancelling
// ctx stops after the migration currently running.
func Migrate(ctx context.Context, config utils.DatabaseConfig, logger *zap.Logger) error {
	src, err := MigrationSource()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(config))
	if err != nil {
		return fmt.Errorf("open migration target: %w", err)
	}
	defer m.Close()

	stop := context.AfterFunc(ctx, func() { m.GracefulStop <- true })
	defer stop()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("Database schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
