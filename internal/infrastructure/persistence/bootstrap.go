package persistence

import (
	"fmt"

	"github.com/gestion/backend/internal/infrastructure/config"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/persistence/models"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Open connects to the configured database with a zap-backed GORM logger and,
// when enabled, query tracing. SQLite databases get their schema from
// AutoMigrate; PostgreSQL schemas are owned by the migrate command.
func Open(cfg *config.Config, log *zap.Logger) (*Database, error) {
	gormLog := logger.NewGormLogger(log,
		logger.MapGormLogLevel(cfg.Log.SQLLevel),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true),
	)
	opts := []Option{WithLogger(gormLog)}

	if cfg.Telemetry.DBTraceEnabled {
		opts = append(opts, WithTracing(telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem(cfg.Database.Driver),
		}, log)))
	}

	db, err := NewDatabase(&cfg.Database, opts...)
	if err != nil {
		return nil, err
	}

	if db.Driver == config.DriverSQLite {
		if err := models.AutoMigrate(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	return db, nil
}

func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}
