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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123456:test-token"
  source_channel_id: -1001234567890
  webhook:
    endpoint: "https://example.com/webhook"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(-1001234567890), cfg.Bot.SourceChannelID)
	assert.Equal(t, "8443", cfg.Bot.Webhook.ListenPort)
	assert.Equal(t, 30, cfg.Retention.MessageDays)
	assert.Equal(t, 7, cfg.Retention.RecordsDays)
	assert.Equal(t, "data/messages.db", cfg.Database.Path)
	assert.Equal(t, "INFO", cfg.Logger.Level)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
bot:
  source_channel_id: -1001234567890
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot token")
}

func TestLoadRequiresSourceChannel(t *testing.T) {
	t.Setenv("CHANNEL_ID", "")
	path := writeConfig(t, `
bot:
  token: "123456:test-token"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source channel")
}

func TestLoadRejectsNegativeRetention(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123456:test-token"
  source_channel_id: -1001234567890
retention:
  message_days: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999999:env-token")
	path := writeConfig(t, `
bot:
  token: "123456:file-token"
  source_channel_id: -1001234567890
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "999999:env-token", cfg.Bot.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
