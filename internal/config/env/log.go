package env

import (
	"casino_rounds/internal/config"
	"os"
	"strings"
)

const (
	logLevelEnvName = "LOG_LEVEL"
	logModeEnvName  = "LOG_MODE"
	logDirEnvName   = "LOG_DIR"
	logFileEnvName  = "LOG_FILE"
)

type logConfig struct {
	level string
	prod  bool
	dir   string
	file  bool
}

func NewLogConfig() config.LogConfig {
	level := os.Getenv(logLevelEnvName)
	if len(level) == 0 {
		level = "info"
	}

	return &logConfig{
		level: level,
		prod:  strings.EqualFold(os.Getenv(logModeEnvName), "prod"),
		dir:   os.Getenv(logDirEnvName),
		file:  os.Getenv(logFileEnvName) == "true",
	}
}

func (cfg *logConfig) Level() string {
	return cfg.level
}

func (cfg *logConfig) Prod() bool {
	return cfg.prod
}

func (cfg *logConfig) Dir() string {
	return cfg.dir
}

func (cfg *logConfig) File() bool {
	return cfg.file
}
