package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimoJanra/SitePulse/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func isolatedEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunPrintsSummary(t *testing.T) {
	isolatedEnv(t)

	out, err := execute(t, "run")
	require.NoError(t, err)

	var summary models.CycleSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, models.CycleSummary{}, summary)
}

func TestResolveUnknownIncident(t *testing.T) {
	isolatedEnv(t)

	_, err := execute(t, "resolve", "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not open")
}

func TestResolveRequiresID(t *testing.T) {
	_, err := execute(t, "resolve")
	require.Error(t, err)
}
