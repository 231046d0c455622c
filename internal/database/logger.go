package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm/logger"
)

// gormLogger routes gorm's output through charmbracelet/log.
type gormLogger struct {
	log   *log.Logger
	level logger.LogLevel
}

func newGormLogger() logger.Interface {
	return &gormLogger{
		log:   log.Default().WithPrefix("gorm"),
		level: logger.Warn,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.Errorf(msg, args...)
	}
}

// Trace logs every statement at debug level. Failed statements are reported
// by the repository methods, which know whether the failure was expected.
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent || l.log.GetLevel() > log.DebugLevel {
		return
	}
	sql, rows := fc()
	if err != nil {
		l.log.Debug("query", "sql", sql, "rows", rows, "elapsed", time.Since(begin), "error", err)
		return
	}
	l.log.Debug("query", "sql", sql, "rows", rows, "elapsed", time.Since(begin))
}
