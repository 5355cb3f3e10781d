// Package config loads settings from scholarlens.yaml, SCHOLARLENS_* env
// vars and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
	"github.com/csheth/scholarlens/internal/logging"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SCHOLARLENS_STORE_BACKEND.
	EnvPrefix = "SCHOLARLENS"
	fileName  = "scholarlens"

	ThemeLight   = "light"
	ThemeDark    = "dark"
	ThemeEyeCare = "eye-care"
)

// Config is the resolved application configuration.
type Config struct {
	Store    StoreConfig `mapstructure:"store"`
	LLM      LLMConfig   `mapstructure:"llm"`
	Language string      `mapstructure:"language"`
	Theme    string      `mapstructure:"theme"`
	Cache    CacheConfig `mapstructure:"cache"`
	Log      LogConfig   `mapstructure:"log"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// CacheConfig enables the Redis analysis cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key so env overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", library.BackendJSON)
	v.SetDefault("store.path", "")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "scholarlens")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("language", string(analysis.English))
	v.SetDefault("theme", ThemeDark)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
}

// NewViper returns a viper instance reading cfgFile, or scholarlens.yaml from
// the working directory or ~/.config/scholarlens. A missing file is fine.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "scholarlens"))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case library.BackendJSON, library.BackendSQLite:
	case library.BackendMongo:
		if strings.TrimSpace(c.Store.MongoURI) == "" {
			errs = append(errs, errors.New("store.mongo_uri is required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q must be json, sqlite or mongo", c.Store.Backend))
	}
	switch c.LLM.Provider {
	case "", "openai", "ollama":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q must be openai or ollama", c.LLM.Provider))
	}
	if _, err := analysis.ParseLanguage(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language: %w", err))
	}
	switch c.Theme {
	case "", ThemeLight, ThemeDark, ThemeEyeCare:
	default:
		errs = append(errs, fmt.Errorf("theme %q must be light, dark or eye-care", c.Theme))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// OutputLanguage is the validated report language.
func (c Config) OutputLanguage() analysis.Language {
	lang, err := analysis.ParseLanguage(c.Language)
	if err != nil {
		return analysis.English
	}
	return lang
}

// StoreOptions resolves the library backend, defaulting the file path by backend.
func (c Config) StoreOptions() library.Options {
	path := c.Store.Path
	if strings.TrimSpace(path) == "" {
		switch c.Store.Backend {
		case library.BackendSQLite:
			path = "scholarlens-library.db"
		default:
			path = "scholarlens-library.json"
		}
	}
	return library.Options{
		Backend:       c.Store.Backend,
		Path:          path,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// AnalysisConfig builds the analyzer settings.
func (c Config) AnalysisConfig(logger *zap.Logger) analysis.Config {
	return analysis.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		Endpoint: c.LLM.Endpoint,
		APIKey:   c.LLM.APIKey,
		Logger:   logger,
	}
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{Path: c.Log.Path, Level: c.Log.Level}
}
