// Package config loads keysync settings with viper.
//
// Lookup order for the config file: an explicit --config path, then
// .keysync/config.yaml in the working directory, then
// ~/.config/keysync/config.yaml. Environment variables prefixed KEYSYNC_
// override file values (KEYSYNC_ROOT, KEYSYNC_LOG_LEVEL, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/keycache"
	"github.com/HendryAvila/keysync/internal/logging"
	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/HendryAvila/keysync/internal/tracing"
)

// LocalConfigPath is the per-project config file.
const LocalConfigPath = ".keysync/config.yaml"

// Config is the full keysync configuration.
type Config struct {
	// Root is the project root every key is relative to.
	Root string `mapstructure:"root" yaml:"root"`

	// KindsFile, when set, replaces Kinds with the table in that file.
	KindsFile  string              `mapstructure:"kinds_file" yaml:"kinds_file,omitempty"`
	Kinds      []resolver.KindRule `mapstructure:"kinds" yaml:"kinds"`
	IgnoreDirs []string            `mapstructure:"ignore_dirs" yaml:"ignore_dirs"`

	// ResolveTimeout bounds each keysync_resolve call.
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout" yaml:"resolve_timeout"`

	Content ContentConfig  `mapstructure:"content" yaml:"content"`
	Cache   CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Log     logging.Config `mapstructure:"log" yaml:"log"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// ContentConfig configures the document store.
type ContentConfig struct {
	Enabled          bool   `mapstructure:"enabled" yaml:"enabled"`
	DataDir          string `mapstructure:"data_dir" yaml:"data_dir"`
	MaxDocumentBytes int    `mapstructure:"max_document_bytes" yaml:"max_document_bytes"`
}

// CacheConfig configures the any-spelling document cache.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	store := content.DefaultConfig()
	return Config{
		Root:           ".",
		Kinds:          resolver.DefaultKindRules(),
		IgnoreDirs:     append([]string(nil), resolver.DefaultIgnoreDirs...),
		ResolveTimeout: 2 * time.Second,
		Content: ContentConfig{
			Enabled:          true,
			DataDir:          store.DataDir,
			MaxDocumentBytes: store.MaxDocumentBytes,
		},
		Cache: CacheConfig{
			TTL:             keycache.DefaultExpiration,
			CleanupInterval: keycache.DefaultCleanupInterval,
		},
		Log:     logging.DefaultConfig(),
		Tracing: tracing.DefaultConfig(),
	}
}

// SetDefaults registers Defaults on v so env overrides apply to every key.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("root", d.Root)
	v.SetDefault("kinds_file", "")
	v.SetDefault("kinds", d.Kinds)
	v.SetDefault("ignore_dirs", d.IgnoreDirs)
	v.SetDefault("resolve_timeout", d.ResolveTimeout)
	v.SetDefault("content.enabled", d.Content.Enabled)
	v.SetDefault("content.data_dir", d.Content.DataDir)
	v.SetDefault("content.max_document_bytes", d.Content.MaxDocumentBytes)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// Load reads configuration into a Config. cfgFile may be empty. Flags must
// already be bound on v.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("KEYSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(LocalConfigPath); err == nil {
		v.SetConfigFile(LocalConfigPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "keysync"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("config: root must not be empty")
	}
	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("config: resolve_timeout must be positive, got %s", c.ResolveTimeout)
	}
	if c.KindsFile == "" {
		if err := resolver.ValidateKindRules(c.Kinds); err != nil {
			return fmt.Errorf("config: kinds: %w", err)
		}
	}
	return nil
}

// KindRules returns the effective kind table.
func (c Config) KindRules() ([]resolver.KindRule, error) {
	if c.KindsFile != "" {
		return resolver.LoadKindRules(c.KindsFile)
	}
	return c.Kinds, nil
}

// ResolverOptions translates the config into engine options.
func (c Config) ResolverOptions() ([]resolver.Option, error) {
	rules, err := c.KindRules()
	if err != nil {
		return nil, err
	}
	return []resolver.Option{
		resolver.WithKindRules(rules),
		resolver.WithIgnoreDirs(c.IgnoreDirs...),
	}, nil
}

// StoreConfig returns the content store configuration.
func (c Config) StoreConfig() content.Config {
	return content.Config{DataDir: c.Content.DataDir, MaxDocumentBytes: c.Content.MaxDocumentBytes}
}

// WriteDefault writes the default configuration to path as YAML, creating
// parent directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
