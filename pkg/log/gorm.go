package log

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger forwards GORM's SQL traces to a LoggerService
type GormLogger struct {
	log           LoggerService
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(log LoggerService, level logger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		log:           log,
		level:         level,
		slowThreshold: slowThreshold,
	}
}

// ParseGormLevel maps silent, error, warn and info to GORM log levels.
// Anything else is treated as silent.
func ParseGormLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info", "debug":
		return logger.Info
	default:
		return logger.Silent
	}
}

func (gl *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

func (gl *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Info {
		gl.log.Info(msg, data...)
	}
}

func (gl *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Warn {
		gl.log.Warn(msg, data...)
	}
}

func (gl *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Error {
		gl.log.Error(msg, data...)
	}
}

func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if gl.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && gl.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		gl.log.Error("%v [%s] [rows:%d] %s", err, elapsed, rows, sql)
	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= logger.Warn:
		sql, rows := fc()
		gl.log.Warn("slow sql >= %s [%s] [rows:%d] %s", gl.slowThreshold, elapsed, rows, sql)
	case gl.level >= logger.Info:
		sql, rows := fc()
		gl.log.Debug("[%s] [rows:%d] %s", elapsed, rows, sql)
	}
}
