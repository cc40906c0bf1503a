package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv overlays .env and then .env.dev onto the process environment.
// Missing files are skipped.
func LoadEnv(logger *logrus.Logger) {
	for _, file := range []string{".env", ".env.dev"} {
		if err := godotenv.Overload(file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		logger.WithField("file", file).Debug("Loaded env file")
	}
}

// GetLogLevel reads LOG_LEVEL, falling back to info.
func GetLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// envValue returns def when key is unset, blank or fails to parse.
func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func envString(key, def string) string {
	return envValue(key, def, func(s string) (string, error) { return s, nil })
}

func envInt(key string, def int) int {
	return envValue(key, def, strconv.Atoi)
}

// envDuration accepts Go durations ("30s", "1m") or a bare number of seconds.
func envDuration(key string, def time.Duration) time.Duration {
	return envValue(key, def, func(s string) (time.Duration, error) {
		if secs, err := strconv.Atoi(s); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}
