package pkg

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel 覆盖日志级别
const EnvLogLevel = "ICAL_LOG_LEVEL"

// InitLogger 初始化 stderr 上的控制台日志, level 为空时读取环境变量
func InitLogger(app, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		level = env
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger().Level(ParseLevel(level))
	log.Logger = logger
	return logger
}

// ParseLevel 解析日志级别, 未知的值按 warn 处理
func ParseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
