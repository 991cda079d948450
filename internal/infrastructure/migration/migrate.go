// Package migration runs and authors the versioned PostgreSQL schema under migrations/.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// zapMigrateLogger forwards golang-migrate's progress lines to zap at debug level.
type zapMigrateLogger struct{ log *zap.Logger }

func (l zapMigrateLogger) Printf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l zapMigrateLogger) Verbose() bool {
	return l.log.Core().Enabled(zap.DebugLevel)
}

// New opens the file source at dir against an existing PostgreSQL handle.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", dir, err)
	}
	m.Log = zapMigrateLogger{log: log.Named("migrate")}
	return &Migrator{m: m, log: log}, nil
}

// apply runs op and treats migrate.ErrNoChange as success.
func (mg *Migrator) apply(action string, op func() error, fields ...zap.Field) error {
	mg.log.Info("Migrating", append(fields, zap.String("action", action))...)
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema already up to date", zap.String("action", action))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", action, err)
	}
	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info("Migration finished",
		zap.String("action", action),
		zap.Uint("version", v),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func (mg *Migrator) Up() error { return mg.apply("up", mg.m.Up) }

func (mg *Migrator) Down() error { return mg.apply("down", mg.m.Down) }

// Steps moves n migrations forward, or back when n is negative.
func (mg *Migrator) Steps(n int) error {
	return mg.apply("steps", func() error { return mg.m.Steps(n) }, zap.Int("steps", n))
}

func (mg *Migrator) GoTo(version uint) error {
	return mg.apply("goto", func() error { return mg.m.Migrate(version) }, zap.Uint("target_version", version))
}

// Version is 0 when no migration was ever applied.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

// Force records version as applied and clears the dirty flag left by a failed run.
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
