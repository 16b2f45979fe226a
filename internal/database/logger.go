package database

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// logAdapter sends GORM output through the application logger so it
// follows the configured format and level
type logAdapter struct {
	log           *logrus.Entry
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newLogAdapter(log *logrus.Logger, level logger.LogLevel) *logAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &logAdapter{
		log:           log.WithField("component", "gorm"),
		level:         level,
		slowThreshold: slowQueryThreshold,
	}
}

func (l *logAdapter) LogMode(level logger.LogLevel) logger.Interface {
	adapter := *l
	adapter.level = level
	return &adapter
}

func (l *logAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.WithContext(ctx).Infof(strings.TrimSpace(msg), data...)
	}
}

func (l *logAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.WithContext(ctx).Warnf(strings.TrimSpace(msg), data...)
	}
}

func (l *logAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.WithContext(ctx).Errorf(strings.TrimSpace(msg), data...)
	}
}

// Trace logs failed queries at error, slow ones at warn and the rest at
// debug when the level is info. Missing records are not failures.
func (l *logAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	entry := func() *logrus.Entry {
		sql, rows := fc()
		return l.log.WithContext(ctx).WithFields(logrus.Fields{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry().WithError(err).Error("Query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		entry().Warn("Slow query")
	case l.level >= logger.Info:
		entry().Debug("Query executed")
	}
}
