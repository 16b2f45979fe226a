package database

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func traceQuery() (string, int64) {
	return "SELECT * FROM orders", 2
}

func TestLogAdapterTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("failed query logs an error", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		adapter := newLogAdapter(log, logger.Warn)

		adapter.Trace(ctx, time.Now(), traceQuery, errors.New("no such table: orders"))

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, "Query failed", entry.Message)
		assert.Equal(t, "gorm", entry.Data["component"])
		assert.Equal(t, "SELECT * FROM orders", entry.Data["sql"])
		assert.Equal(t, int64(2), entry.Data["rows"])
	})

	t.Run("missing record is not logged", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		adapter := newLogAdapter(log, logger.Warn)

		adapter.Trace(ctx, time.Now(), traceQuery, gorm.ErrRecordNotFound)
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("slow query logs a warning", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		adapter := newLogAdapter(log, logger.Warn)

		adapter.Trace(ctx, time.Now().Add(-time.Second), traceQuery, nil)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "Slow query", entry.Message)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		adapter := newLogAdapter(log, logger.Warn).LogMode(logger.Silent)

		adapter.Trace(ctx, time.Now().Add(-time.Second), traceQuery, errors.New("boom"))
		adapter.Error(ctx, "boom")
		assert.Empty(t, hook.AllEntries())
	})
}

func TestConnectLogsThroughLogrus(t *testing.T) {
	log, hook := test.NewNullLogger()
	db, _ := openTestDB(t)

	gormDB, err := db.DB()
	require.NoError(t, err)
	gormDB.Logger = newLogAdapter(log, logger.Error)

	err = gormDB.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Query failed", entry.Message)
	assert.Contains(t, entry.Data["sql"], "missing_table")
}
