package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report-relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
db_path: /tmp/relay.db
telegram:
  token: test-token
  max_attempts: 5
archive:
  bucket: report-archive
  region: us-east-1
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/relay.db", cfg.DBPath)
		assert.Equal(t, "test-token", cfg.Telegram.Token)
		assert.Equal(t, 5, cfg.Telegram.MaxAttempts)
		assert.Equal(t, "report-archive", cfg.Archive.Bucket)
	})

	t.Run("defaults apply", func(t *testing.T) {
		path := writeConfig(t, "telegram:\n  token: test-token\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "report-relay.db", cfg.DBPath)
		assert.Equal(t, "Document Problem Report", cfg.ReportTitle)
	})

	t.Run("token falls back to the environment", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
		path := writeConfig(t, "db_path: relay.db\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-token", cfg.Telegram.Token)
	})

	t.Run("missing token is a configuration error", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		path := writeConfig(t, "db_path: relay.db\n")

		_, err := Load(path)
		assert.ErrorContains(t, err, "telegram token")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
