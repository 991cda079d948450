package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestion/backend/internal/infrastructure/config"
	"github.com/gestion/backend/internal/infrastructure/persistence/models"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	// gorm.Open pings the pool once
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB, Driver: config.DriverPostgres}, mock, mockDB
}

func TestNewDatabase_SQLite(t *testing.T) {
	t.Run("opens in-memory database with foreign keys enabled", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		var enabled int
		require.NoError(t, db.DB.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
		assert.Equal(t, 1, enabled)

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("schema survives across queries on the single connection", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, models.AutoMigrate(db.DB))
		assert.True(t, db.DB.Migrator().HasTable(&models.InvoiceModel{}))
		assert.True(t, db.DB.Migrator().HasTable("payments"))
	})

	t.Run("installs tracing plugin when enabled", func(t *testing.T) {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
		db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite}, WithTracing(plugin))
		require.NoError(t, err)
		defer db.Close()

		_, ok := db.DB.Config.Plugins["otelgorm"]
		assert.True(t, ok)
	})
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	assert.NoError(t, db.PingContext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
