// Package config loads the optional .moedit.yaml configuration file.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/moedit/pkg/mutate"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".moedit.yaml"

// Store kinds.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the editor configuration. Command-line flags override it.
type Config struct {
	Store           StoreConfig `yaml:"store"`
	Indent          string      `yaml:"indent"`
	AllowDuplicates bool        `yaml:"allow_duplicates"`
	LogLevel        string      `yaml:"log_level"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Kind       string           `yaml:"kind"`
	Root       string           `yaml:"root"`
	ReadOnly   bool             `yaml:"read_only"`
	Redis      RedisConfig      `yaml:"redis"`
	Encryption EncryptionConfig `yaml:"encryption"`
}

// EncryptionConfig enables at-rest encryption of document text.
// Keys are base64-encoded 32-byte AES keys.
type EncryptionConfig struct {
	Key            string   `yaml:"key"`
	FallbackKeys   []string `yaml:"fallback_keys"`
	AllowPlaintext bool     `yaml:"allow_plaintext"`
}

// Enabled reports whether an active key is configured.
func (e EncryptionConfig) Enabled() bool {
	return e.Key != ""
}

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey("store.encryption.key", e.Key)
	if err != nil {
		return nil, nil, err
	}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("store.encryption.fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(field, value string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base64: %w", field, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s: want 32 bytes, got %d", field, len(key))
	}
	return key, nil
}

// RedisConfig configures the Redis store and locker.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Kind: StoreFile,
			Root: ".",
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "moedit:",
				LockTTL: 30 * time.Second,
			},
		},
		Indent:   mutate.DefaultIndent,
		LogLevel: "warn",
	}
}

// Load reads path over the defaults. An empty path means FileName in the
// working directory, and a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// A relative root is relative to the config file.
	if explicit && cfg.Store.Root != "" && !filepath.IsAbs(cfg.Store.Root) {
		cfg.Store.Root = filepath.Join(filepath.Dir(path), cfg.Store.Root)
	}
	return cfg, cfg.Validate()
}

// Validate checks field combinations.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store kind %q (want %s, %s or %s)", c.Store.Kind, StoreFile, StoreMemory, StoreRedis)
	}
	if c.Indent == "" {
		return fmt.Errorf("indent cannot be empty")
	}
	if c.Store.Redis.TTL < 0 || c.Store.Redis.LockTTL < 0 {
		return fmt.Errorf("redis durations cannot be negative")
	}
	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			return err
		}
	} else if len(c.Store.Encryption.FallbackKeys) > 0 {
		return fmt.Errorf("store.encryption.fallback_keys requires store.encryption.key")
	}
	return nil
}
