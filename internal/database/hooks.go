package database

import (
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"

	"gorm.io/gorm"
)

const startTimeKey = "tailorshop:start_time"

// RegisterMetricsHooks registers GORM callbacks that report statement metrics
func RegisterMetricsHooks(db *gorm.DB) {
	db.Callback().Create().After("gorm:create").Register("metrics:create", record(metrics.DBQueryTypeInsert))
	db.Callback().Query().After("gorm:query").Register("metrics:query", record(metrics.DBQueryTypeSelect))
	db.Callback().Update().After("gorm:update").Register("metrics:update", record(metrics.DBQueryTypeUpdate))
	db.Callback().Delete().After("gorm:delete").Register("metrics:delete", record(metrics.DBQueryTypeDelete))
	db.Callback().Raw().After("gorm:raw").Register("metrics:raw", record(metrics.DBQueryTypeRaw))
	db.Callback().Row().After("gorm:row").Register("metrics:row", record(metrics.DBQueryTypeSelect))
}

// RegisterDurationHooks stamps the start time before each statement
func RegisterDurationHooks(db *gorm.DB) {
	db.Callback().Create().Before("gorm:create").Register("duration:create", stampStart)
	db.Callback().Query().Before("gorm:query").Register("duration:query", stampStart)
	db.Callback().Update().Before("gorm:update").Register("duration:update", stampStart)
	db.Callback().Delete().Before("gorm:delete").Register("duration:delete", stampStart)
	db.Callback().Raw().Before("gorm:raw").Register("duration:raw", stampStart)
	db.Callback().Row().Before("gorm:row").Register("duration:row", stampStart)
}

func record(queryType string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		metrics.RecordDatabaseQuery(queryType, db.Error == nil || db.Error == gorm.ErrRecordNotFound, elapsed(db))
	}
}

func stampStart(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func elapsed(db *gorm.DB) time.Duration {
	if start, ok := db.InstanceGet(startTimeKey); ok {
		if t, ok := start.(time.Time); ok {
			return time.Since(t)
		}
	}
	return 0
}
