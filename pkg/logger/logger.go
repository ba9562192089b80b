package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the process logger. Safe to call more than once; only the
// first call takes effect. Production config unless APP_ENV says otherwise.
func Init() {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("APP_ENV") == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
}

func get() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

// Error accepts loosely-typed arguments so call sites can append a trailing
// error value without structuring it.
func Error(args ...any) {
	get().Error(args...)
}

func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
