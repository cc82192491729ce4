// Package logger собирает zap логгер: цветной вывод в консоль и,
// в prod режиме, файлы с ротацией через lumberjack.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFmt = "2006/01/02 15:04:05.000"

type Config struct {
	Level string
	Prod  bool
	App   string
	Dir   string
	File  bool
}

// New логгер по конфигу. При неверном уровне используется info.
func New(cfg Config) *zap.Logger {
	if cfg.App == "" {
		cfg.App = "casino_rounds"
	}

	lv := zap.NewAtomicLevel()
	if err := lv.UnmarshalText([]byte(cfg.Level)); err != nil {
		lv.SetLevel(zap.InfoLevel)
		_, _ = fmt.Fprintf(os.Stderr, "logger: invalid log level %q, using info\n", cfg.Level)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(false)), zapcore.Lock(os.Stdout), lv),
	}
	if cfg.File || cfg.Prod {
		name := filepath.Join(cfg.Dir, cfg.App)
		cores = append(cores,
			fileCore(name+".log", lv),
			fileCore(name+"_error.log", zap.ErrorLevel),
		)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Nop логгер для тестов
func Nop() *zap.Logger {
	return zap.NewNop()
}

func fileCore(file string, lv zapcore.LevelEnabler) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     10,
		Compress:   true,
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(true)), zapcore.AddSync(w), lv)
}

func encoderConfig(file bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeFmt))
	}
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " "
	if file {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}
