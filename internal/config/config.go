// Package config loads and validates the identity store configuration using Viper.
//
// Configuration is layered: built-in defaults < YAML config file < environment
// variables. Environment variables use the ASKB_ prefix (e.g. ASKB_STORE_PATH
// overrides store.path in the YAML). This layering allows the same binary to run
// with a config.yaml in local development and with pure environment variables in
// containerized deployments.
//
// The ENCRYPTION_SECRET variable has no ASKB_ prefix because it may be injected
// by infrastructure tooling (e.g. Kubernetes secrets, Vault agent) that does not
// know the application-specific prefix and treats it as a generic secret name.
// When unset, a known local-development value is used so a fresh checkout works
// without setup; it must never reach production.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevEncryptionSecret is the local-development fallback for ENCRYPTION_SECRET.
const DevEncryptionSecret = "askbase-dev-secret-do-not-use-in-production"

// Config holds all application configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	APIKeys   APIKeyConfig    `mapstructure:"api_keys"`
	Session   SessionConfig   `mapstructure:"session"`
	Platform  PlatformConfig  `mapstructure:"platform"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// StoreConfig holds identity document persistence configuration.
type StoreConfig struct {
	// Path is where the identity document lives, relative to the deployment.
	Path string `mapstructure:"path"`
}

// CryptoConfig holds the process-lifetime secrets. Read once at start; the
// derived keys never change while the process runs.
type CryptoConfig struct {
	EncryptionSecret string `mapstructure:"encryption_secret"`
	// HashingSecret keys the API key lookup hash. Defaults to the encryption
	// secret when unset.
	HashingSecret string `mapstructure:"hashing_secret"`
}

// GetHashingSecret returns the hashing secret, falling back to the encryption
// secret when none is configured.
func (c *CryptoConfig) GetHashingSecret() string {
	if c.HashingSecret != "" {
		return c.HashingSecret
	}
	return c.EncryptionSecret
}

// APIKeyConfig holds API key generation configuration.
type APIKeyConfig struct {
	// Prefix is the human-recognizable credential prefix (keys look like
	// "askb_<random>"). It lets humans and log scrubbers recognize the
	// credential type at a glance without revealing the secret.
	Prefix string `mapstructure:"prefix"`
}

// SessionConfig holds session token configuration.
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// PlatformConfig holds platform-operator concerns.
type PlatformConfig struct {
	// DefaultOrganization is the display name of the organization created on
	// first run.
	DefaultOrganization string `mapstructure:"default_organization"`
	// InternalOrgs lists organization ids visible to platform operators only.
	InternalOrgs []string `mapstructure:"internal_orgs"`
}

// IsInternalOrg reports whether orgID is flagged operator-only.
func (p *PlatformConfig) IsInternalOrg(orgID string) bool {
	for _, id := range p.InternalOrgs {
		if id == orgID {
			return true
		}
	}
	return false
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// bindEnvVars explicitly binds environment variables to config keys.
// This is necessary because AutomaticEnv() doesn't work well with nested
// structs during Unmarshal. viper.BindEnv only errors when called with zero
// keys; since every key here is a non-empty hardcoded string, any error
// indicates a programming bug and is surfaced to the caller.
func bindEnvVars(v *viper.Viper) error {
	keys := []string{
		"store.path",

		"crypto.encryption_secret",
		"crypto.hashing_secret",

		"api_keys.prefix",

		"session.secret",
		"session.ttl",

		"platform.default_organization",
		"platform.internal_orgs",

		"logging.level",
		"logging.format",

		"telemetry.enabled",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env var %q: %w", key, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/askbase-identity")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment variables
	}

	v.SetEnvPrefix("ASKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// ENCRYPTION_SECRET is infra-injected without the ASKB_ prefix and wins
	// over every other layer.
	if secret := os.Getenv("ENCRYPTION_SECRET"); secret != "" {
		cfg.Crypto.EncryptionSecret = secret
	}
	if secret := os.Getenv("HASHING_SECRET"); secret != "" {
		cfg.Crypto.HashingSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.path", "./data/identity.json")

	v.SetDefault("crypto.encryption_secret", DevEncryptionSecret)
	v.SetDefault("crypto.hashing_secret", "")

	v.SetDefault("api_keys.prefix", "askb")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "12h")

	v.SetDefault("platform.default_organization", "Default Organization")
	v.SetDefault("platform.internal_orgs", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telemetry.enabled", true)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.Crypto.EncryptionSecret == "" {
		return fmt.Errorf("crypto.encryption_secret is required")
	}

	if c.APIKeys.Prefix == "" {
		return fmt.Errorf("api_keys.prefix is required")
	}
	if strings.ContainsAny(c.APIKeys.Prefix, "_ ") {
		return fmt.Errorf("api_keys.prefix must not contain underscores or spaces: %q", c.APIKeys.Prefix)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}
