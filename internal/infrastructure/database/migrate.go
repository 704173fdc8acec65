package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"clinic-backend/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// RunMigrations applies any pending schema migrations from db/migrations.
// ErrNoChange is a normal startup condition, not a failure.
func RunMigrations(cfg config.DBConfig) error {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		net.JoinHostPort(cfg.Host, cfg.Port),
		cfg.Name,
	)

	mig, err := migrate.New("file://db/migrations", connectionString)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	logrus.Info("Database migrations completed successfully")

	return nil
}
