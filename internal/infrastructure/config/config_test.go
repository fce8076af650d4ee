package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "recipe-chat", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.01, cfg.Retrieval.MinScore)
	assert.Equal(t, 1, cfg.Retrieval.DefaultTopN)
	assert.Equal(t, 3, cfg.Retrieval.MaxTopN)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Translation.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("RETRIEVAL_MIN_SCORE", "0.05")
	t.Setenv("TRANSLATION_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 0.05, cfg.Retrieval.MinScore)
	assert.True(t, cfg.Translation.Enabled)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Retrieval: RetrievalConfig{
				MinScore:    0.01,
				DefaultTopN: 1,
				MaxTopN:     3,
			},
		}
	}

	assert.NoError(t, validateConfig(base()))

	noPort := base()
	noPort.Server.Port = 0
	assert.Error(t, validateConfig(noPort))

	badScore := base()
	badScore.Retrieval.MinScore = 1.5
	assert.Error(t, validateConfig(badScore))

	badBackend := base()
	badBackend.Cache = CacheConfig{Enabled: true, Backend: "memcached", MaxSize: 10, TTL: time.Hour, CleanupInterval: time.Minute}
	assert.Error(t, validateConfig(badBackend))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "None", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
