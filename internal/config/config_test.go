package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scholarlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, library.BackendJSON, cfg.Store.Backend)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, analysis.English, cfg.OutputLanguage())
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "scholarlens-library.json", cfg.StoreOptions().Path)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: SQLite
  path: /tmp/papers.db
llm:
  provider: openai
  model: gpt-4o
language: zh
theme: eye-care
cache:
  redis_addr: localhost:6379
  ttl: 1h
log:
  path: /tmp/scholarlens.log
  level: debug
`)
	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, library.Options{Backend: "sqlite", Path: "/tmp/papers.db", MongoDatabase: "scholarlens"}, cfg.StoreOptions())
	assert.Equal(t, "openai", cfg.AnalysisConfig(nil).Provider)
	assert.Equal(t, "gpt-4o", cfg.AnalysisConfig(nil).Model)
	assert.Equal(t, analysis.Chinese, cfg.OutputLanguage())
	assert.Equal(t, ThemeEyeCare, cfg.Theme)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "/tmp/scholarlens.log", cfg.Logging().Path)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "theme: light\n")
	t.Setenv("SCHOLARLENS_THEME", "dark")
	t.Setenv("SCHOLARLENS_STORE_BACKEND", "sqlite")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, "scholarlens-library.db", cfg.StoreOptions().Path)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	valid := Config{Store: StoreConfig{Backend: "json"}, Language: "en", Theme: "dark"}
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Config){
		"backend":  func(c *Config) { c.Store.Backend = "postgres" },
		"mongo":    func(c *Config) { c.Store.Backend = "mongo" },
		"provider": func(c *Config) { c.LLM.Provider = "gemini" },
		"language": func(c *Config) { c.Language = "fr" },
		"theme":    func(c *Config) { c.Theme = "neon" },
		"ttl":      func(c *Config) { c.Cache.TTL = -time.Second },
		"level":    func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
