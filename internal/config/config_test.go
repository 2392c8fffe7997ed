package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  path: "test.db"
documents:
  custom_template_dir: "custom"
  default_template_dir: "default"
cache:
  ttl: 30m
logger:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// defaults fill what the file omits
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "soffice", cfg.Documents.LibreOfficeBin)
	assert.Equal(t, "@every 5m", cfg.Cache.SweepSchedule)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := &Config{
		Database:  DatabaseConfig{Path: "test.db"},
		Documents: DocumentsConfig{CustomTemplateDir: "c", DefaultTemplateDir: "d"},
		Cache:     CacheConfig{TTL: time.Minute},
	}
	assert.NoError(t, valid.Validate())

	noDB := *valid
	noDB.Database.Path = ""
	assert.Error(t, noDB.Validate())

	noTTL := *valid
	noTTL.Cache.TTL = 0
	assert.Error(t, noTTL.Validate())
}
