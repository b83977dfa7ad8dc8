package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер сервера, симулятора и HUD.
var Log *logrus.Logger

// Init настраивает глобальный логгер из окружения:
//   - LOG_LEVEL: trace/debug/info/warn/error (по умолчанию info);
//   - LOG_FORMAT: "json" для сбора логов, иначе цветной текст;
//   - LOG_OUTPUT: "stderr", "discard" или stdout по умолчанию.
func Init() {
	Log = logrus.New()

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(outputFor(os.Getenv("LOG_OUTPUT")))
}

// Component возвращает запись с полем component.
// Если Init ещё не вызывался (тесты других пакетов), логгер создаётся лениво.
func Component(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", name)
}

func outputFor(target string) io.Writer {
	switch strings.ToLower(target) {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
