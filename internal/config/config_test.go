package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "./data/identity.json", cfg.Store.Path)
	assert.Equal(t, DevEncryptionSecret, cfg.Crypto.EncryptionSecret)
	assert.Equal(t, "askb", cfg.APIKeys.Prefix)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "Default Organization", cfg.Platform.DefaultOrganization)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /var/lib/askbase/identity.json
crypto:
  encryption_secret: file-secret
  hashing_secret: file-hash-secret
platform:
  internal_orgs:
    - org-internal-1
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/askbase/identity.json", cfg.Store.Path)
	assert.Equal(t, "file-secret", cfg.Crypto.EncryptionSecret)
	assert.Equal(t, "file-hash-secret", cfg.Crypto.HashingSecret)
	assert.True(t, cfg.Platform.IsInternalOrg("org-internal-1"))
	assert.False(t, cfg.Platform.IsInternalOrg("org-tenant"))
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ASKB_STORE_PATH", "/tmp/env-identity.json")
	t.Setenv("ASKB_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-identity.json", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadUnprefixedEncryptionSecret(t *testing.T) {
	t.Setenv("ENCRYPTION_SECRET", "injected-by-infra")

	cfg, err := Load(writeConfig(t, "crypto:\n  encryption_secret: from-file\n"))
	require.NoError(t, err)

	// The unprefixed variable wins over the file.
	assert.Equal(t, "injected-by-infra", cfg.Crypto.EncryptionSecret)
}

func TestGetHashingSecretFallback(t *testing.T) {
	c := CryptoConfig{EncryptionSecret: "enc"}
	assert.Equal(t, "enc", c.GetHashingSecret())

	c.HashingSecret = "hash"
	assert.Equal(t, "hash", c.GetHashingSecret())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad logging level", "logging:\n  level: verbose\n"},
		{"bad logging format", "logging:\n  format: xml\n"},
		{"underscore in prefix", "api_keys:\n  prefix: ask_b\n"},
		{"empty store path", "store:\n  path: \"\"\n"},
		{"zero session ttl", "session:\n  ttl: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}
