package logger

import (
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// L is the global logger for scripts and the CLI. Everything wired through
// fx should take the injected *Logger instead.
var L *Logger

// NewLogger creates a logger honouring the configured level
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(levelFor(cfg.Logging.Level))

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNoopLogger returns a logger that discards everything, used by tests
func NewNoopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func init() {
	L, _ = NewLogger(config.GetDefaultConfig())
	if L == nil {
		L = NewNoopLogger()
	}
}

func levelFor(level types.LogLevel) zapcore.Level {
	switch level {
	case types.LogLevelDebug:
		return zapcore.DebugLevel
	case types.LogLevelWarn:
		return zapcore.WarnLevel
	case types.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes buffered entries, errors from stderr syncing are ignored
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
