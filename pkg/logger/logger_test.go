package logger_test

import (
	"botlist/pkg/logger"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
	}{
		{
			name:        "Development Environment",
			environment: logger.DevelopmentEnvironment,
		},
		{
			name:        "Production Environment",
			environment: logger.ProductionEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup should not panic
			require.NotPanics(t, func() {
				logger.Setup(tt.environment)
			})

			// get a logger from context to verify setup worked
			ctx := context.Background()
			l := logger.Get(ctx)
			require.NotNil(t, l)
		})
	}
}

func TestGet(t *testing.T) {
	// setup logger
	logger.Setup(logger.DevelopmentEnvironment)

	// test with empty context
	ctx := context.Background()
	l := logger.Get(ctx)
	require.NotNil(t, l, "Should return default logger when context has no logger")

	// test with logger in context
	customLogger, _ := zap.NewDevelopment()
	ctxWithLogger := logger.WithLogger(ctx, customLogger)
	l = logger.Get(ctxWithLogger)
	require.Equal(t, customLogger, l, "Should return logger from context")
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	customLogger, _ := zap.NewDevelopment()

	// add logger to context
	ctxWithLogger := logger.WithLogger(ctx, customLogger)

	// verify logger is in context
	l := logger.Get(ctxWithLogger)
	require.Equal(t, customLogger, l, "Logger in context should match the one we added")
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("listingID", "123456789012345678"), zap.Int("attempt", 2))
	logger.Info(ctx, "approved")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "approved", entries[0].Message)
	require.Equal(t, map[string]any{
		"listingID": "123456789012345678",
		"attempt":   int64(2),
	}, entries[0].ContextMap())
}

func TestSlog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithFields(logger.WithLogger(context.Background(), zap.New(core)),
		zap.String("requestID", "abc"))

	l := logger.Slog(ctx, "river")
	l.Info("job completed", "kind", "ListingAuditJob")
	l.Debug("dropped below level")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "job completed", entries[0].Message)
	require.Equal(t, "river", entries[0].LoggerName)
	require.Equal(t, "abc", entries[0].ContextMap()["requestID"])
	require.Equal(t, "ListingAuditJob", entries[0].ContextMap()["kind"])
}

func TestIsDebug(t *testing.T) {
	// setup development logger (which should be at debug level)
	logger.Setup(logger.DevelopmentEnvironment)
	ctx := context.Background()

	// test debug level detection
	require.True(t, logger.IsDebug(ctx), "Development logger should be at debug level")

	// create a custom logger at info level
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	infoLogger, _ := cfg.Build()

	// add to context and test
	ctxWithInfoLogger := logger.WithLogger(ctx, infoLogger)
	require.False(t, logger.IsDebug(ctxWithInfoLogger), "Info level logger should not be at debug level")
}

func TestLoggingFunctions(t *testing.T) {
	// setup
	logger.Setup(logger.DevelopmentEnvironment)
	ctx := context.Background()

	// test that logging functions don't panic
	require.NotPanics(t, func() {
		logger.Debug(ctx, "debug message", zap.String("key", "value"))
	})

	require.NotPanics(t, func() {
		logger.Info(ctx, "info message", zap.String("key", "value"))
	})

	require.NotPanics(t, func() {
		logger.Warn(ctx, "warn message", zap.String("key", "value"))
	})

	require.NotPanics(t, func() {
		logger.Error(ctx, "error message", zap.String("key", "value"))
	})
}
