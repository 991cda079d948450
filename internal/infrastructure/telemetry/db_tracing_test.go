package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tracedRow struct {
	ID   uint
	Name string
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	recorder := installRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zaptest.NewLogger(t))
	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))

	require.NoError(t, db.Create(&tracedRow{Name: "ACME"}).Error)
	var rows []tracedRow
	require.NoError(t, db.Find(&rows).Error)

	assert.NotEmpty(t, recorder.Ended())
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	plugin := NewDBTracingPlugin(DBTracingConfig{}, zaptest.NewLogger(t))
	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestDBTracingPlugin_Annotate(t *testing.T) {
	recorder := installRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zaptest.NewLogger(t))

	ctx, span := otel.Tracer("test").Start(context.Background(), "gorm.Query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

	db := &gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "invoices"}}
	db.RowsAffected = 4
	db.Error = errors.New("deadlock detected")
	plugin.annotate(db)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := map[string]interface{}{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "invoices", attrs["db.sql.table"])
	assert.Equal(t, int64(4), attrs["db.rows_affected"])
	assert.Equal(t, true, attrs["db.slow_query"])
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}
