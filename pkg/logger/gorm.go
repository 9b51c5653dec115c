package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxSQLLength bounds the statement text written to the log.
const maxSQLLength = 1000

// GormLogger adapts zap to gorm's logger.Interface.
type GormLogger struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger. level is one of silent, error, warn or
// info/debug; slowQuerySeconds of 0 disables slow query warnings.
func NewGormLogger(zapLogger *zap.Logger, slowQuerySeconds float64, level string) *GormLogger {
	return &GormLogger{
		ZapLogger:     zapLogger,
		SlowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		LogLevel:      gormLevel(level),
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Info {
		WithContext(ctx, l.ZapLogger).Info(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Warn {
		WithContext(ctx, l.ZapLogger).Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Error {
		WithContext(ctx, l.ZapLogger).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface. Failed statements are logged at error
// level, statements slower than SlowThreshold at warn, everything else at info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := l.SlowThreshold != 0 && elapsed > l.SlowThreshold

	switch {
	case failed && l.LogLevel >= gormlogger.Error:
		WithContext(ctx, l.ZapLogger).Error("gorm query error", append(l.fields(fc, elapsed), zap.Error(err))...)
	case slow && l.LogLevel >= gormlogger.Warn:
		WithContext(ctx, l.ZapLogger).Warn("gorm slow query", append(l.fields(fc, elapsed), zap.Duration("threshold", l.SlowThreshold))...)
	case l.LogLevel >= gormlogger.Info:
		WithContext(ctx, l.ZapLogger).Info("gorm query", l.fields(fc, elapsed)...)
	}
}

func (l *GormLogger) fields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if len(sql) > maxSQLLength {
		sql = sql[:maxSQLLength] + "..."
		fields = append(fields, zap.Bool("sql_truncated", true))
	}
	return append(fields, zap.String("sql", sql))
}
