package database

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLogger adapts zap to migrate.Logger
type migrationLogger struct {
	log *zap.SugaredLogger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.log.Infof(format, v...)
}

func (l migrationLogger) Verbose() bool {
	return false
}

// Migrate applies every pending migration. The migrate instance is not closed
// because closing it would close conn as well.
func Migrate(conn *sqlx.DB) error {
	log := zap.L().With(zap.String("component", "migrations"))

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return eris.Wrap(err, "failed to read embedded migrations")
	}

	driver, err := sqlite.WithInstance(conn.DB, &sqlite.Config{})
	if err != nil {
		return eris.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return eris.Wrap(err, "failed to create migrate instance")
	}
	m.Log = migrationLogger{log: log.Sugar()}

	previous, _, _ := m.Version()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no new migrations to apply", zap.Uint("version", previous))
		return nil
	}
	if err != nil {
		version, dirty, _ := m.Version()
		return eris.Wrapf(err, "migration failed at version %d (dirty=%t)", version, dirty)
	}

	version, _, _ := m.Version()
	log.Info("applied migrations", zap.Uint("from", previous), zap.Uint("to", version))
	return nil
}
