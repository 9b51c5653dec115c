package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestNewWithConfig_DefaultFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	built := newLogger(Config{Level: "debug", Format: "json", ServiceName: "employee-qbe-service", ServiceVersion: "1.0.0"}, zapcore.AddSync(&strings.Builder{}))
	require.NotNil(t, built)
	assert.True(t, built.Core().Enabled(zapcore.DebugLevel))

	WithContext(ContextWithRequestID(context.Background(), "req-1"), log).Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}

func TestWithContext_NoRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	WithContext(context.Background(), zap.New(core)).Info("plain")
	assert.Empty(t, logs.All()[0].ContextMap())
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestRequestID_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/qbe.employee.v1.EmployeeSearch/Count"}
	handler := func(ctx context.Context, req any) (any, error) { return GetRequestID(ctx), nil }

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "from-client"))
	got, err := interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "from-client", got)

	got, err = interceptor(context.Background(), nil, info, handler)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 0.1, "info")
	ctx := ContextWithRequestID(context.Background(), "req-9")
	sql := func() (string, int64) { return "SELECT * FROM employees", 3 }

	l.Trace(ctx, time.Now(), sql, nil)
	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	l.Trace(ctx, time.Now(), sql, errors.New("boom"))
	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "gorm query", entries[0].Message)
	assert.Equal(t, "gorm slow query", entries[1].Message)
	assert.Equal(t, "gorm query error", entries[2].Message)
	assert.Equal(t, "gorm query", entries[3].Message)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_LevelsAndTruncation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 0, "warn")

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Equal(t, 0, logs.Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("x"))
	assert.Equal(t, 0, logs.Len())

	long := strings.Repeat("x", maxSQLLength+10)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, errors.New("x"))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, true, fields["sql_truncated"])
	assert.Len(t, fields["sql"], maxSQLLength+3)
}
