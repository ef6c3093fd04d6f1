package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("GENLOG_TEST_HOST", "db.internal")

	assert.Equal(t, "host: db.internal", expandEnv("host: ${GENLOG_TEST_HOST:localhost}"))
	assert.Equal(t, "port: 5432", expandEnv("port: ${GENLOG_TEST_UNSET_PORT:5432}"))
	assert.Equal(t, "password: ", expandEnv("password: ${GENLOG_TEST_UNSET_PW:}"))
	assert.Equal(t, "secret: ${GENLOG_TEST_UNSET}", expandEnv("secret: ${GENLOG_TEST_UNSET}"))
}

func TestLoadFromMergesEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	base := `
app:
  name: genlog-api
dashboard:
  public_origin: ${GENLOG_TEST_ORIGIN:https://genlog.example.com}
  feed_page_size: 30
`
	staging := `
dashboard:
  feed_page_size: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(staging), 0o644))
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "genlog-api", cfg.App.Name)
	assert.Equal(t, 10, cfg.Dashboard.FeedPageSize)
	assert.Equal(t, time.Second, cfg.Dashboard.SearchDebounce)
	assert.Equal(t, 5, cfg.Dashboard.ExportRateLimitPerMinute)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)

	origin, err := cfg.Dashboard.Origin()
	require.NoError(t, err)
	assert.Equal(t, "genlog.example.com", origin.Host)
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestDashboardOriginRejectsRelative(t *testing.T) {
	_, err := DashboardConfig{PublicOrigin: "/relative"}.Origin()
	assert.Error(t, err)
}
