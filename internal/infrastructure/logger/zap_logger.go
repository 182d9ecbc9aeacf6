package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poslink/internal/domain/ports"
)

// ZapLogger реализует ports.Logger поверх zap.SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// New создает логгер с уровнем level ("debug", "info", "warn", "error").
// На уровне debug используется консольный формат, иначе JSON.
func New(name, level string) (ports.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации zap: %w", err)
	}
	return &ZapLogger{sugar: base.Named(name).Sugar()}, nil
}

// NewFromZap оборачивает готовый *zap.Logger (например, zaptest/observer в тестах)
func NewFromZap(base *zap.Logger) ports.Logger {
	return &ZapLogger{sugar: base.Sugar()}
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Fatal пишет сообщение и завершает процесс
func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalf(msg, args...)
}

// Named возвращает дочерний логгер компонента
func (l *ZapLogger) Named(component string) ports.Logger {
	return &ZapLogger{sugar: l.sugar.Named(component)}
}

func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// Func возвращает логгер-функцию для пакетов pkg/*, принимающих func(string)
func Func(l ports.Logger) func(string) {
	return func(msg string) {
		l.Debug("%s", msg)
	}
}
