package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PROBE_TIMEOUT", "")
	t.Setenv("BURST_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, time.Hour, cfg.BurstWindow)
	assert.Equal(t, 3, cfg.BurstThreshold)
	assert.False(t, cfg.Twilio.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROBE_TIMEOUT", "5")
	t.Setenv("CHECK_INTERVAL", "0")
	t.Setenv("APP_URL", "https://status.example.com/")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, time.Duration(0), cfg.CheckInterval)
	assert.Equal(t, "https://status.example.com", cfg.AppURL)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, envDuration("SOME_DURATION", time.Minute))
}

func TestEnvDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("SOME_DURATION", " 45 ")
	assert.Equal(t, 45*time.Second, envDuration("SOME_DURATION", time.Minute))
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	assert.Equal(t, logrus.WarnLevel, GetLogLevel())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, logrus.InfoLevel, GetLogLevel())
}

func TestLoadEnvOverlaysLocalFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BURST_THRESHOLD=5\nHTTP_ADDR=:9000\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.dev"), []byte("BURST_THRESHOLD=7\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("BURST_THRESHOLD", "")
	t.Setenv("HTTP_ADDR", "")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	LoadEnv(logger)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BurstThreshold)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestLoadRejectsTinyCycleLockTTL(t *testing.T) {
	t.Setenv("CYCLE_LOCK_TTL", "10ms")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CYCLE_LOCK_TTL")
}
