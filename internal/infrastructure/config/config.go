package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Corpus      CorpusConfig      `mapstructure:"corpus"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	Translation TranslationConfig `mapstructure:"translation"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GeminiConfig holds generation backend settings. An empty APIKey is a valid
// state: the client serves a fixed mock response instead of calling out.
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CorpusConfig holds recipe dataset settings.
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// RetrievalConfig holds similarity retrieval settings.
type RetrievalConfig struct {
	MinScore    float64 `mapstructure:"min_score"`
	DefaultTopN int     `mapstructure:"default_top_n"`
	MaxTopN     int     `mapstructure:"max_top_n"`
}

// TranslationConfig holds the optional translation collaborator settings.
type TranslationConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

// CacheConfig holds generation response cache settings.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"` // memory or redis
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig loads configuration from .env and the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables alone are enough.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("gemini.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("corpus.path", "CORPUS_PATH")
	viper.BindEnv("retrieval.min_score", "RETRIEVAL_MIN_SCORE")
	viper.BindEnv("translation.enabled", "TRANSLATION_ENABLED")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.backend", "CACHE_BACKEND")
	viper.BindEnv("cache.redis_addr", "REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Logger is not initialized yet at this point.
	fmt.Println("Loading configuration",
		"gemini_api_key:", MaskAPIKey(viper.GetString("gemini.api_key")),
		"gemini_model:", viper.GetString("gemini.model"),
		"corpus_path:", viper.GetString("corpus.path"),
	)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey hides all but the first and last four characters of a key.
func MaskAPIKey(key string) string {
	if key == "" {
		return "None"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-chat")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.max_tokens", 2048)
	viper.SetDefault("gemini.timeout", "60s")

	viper.SetDefault("corpus.path", "13k-recipes.csv")

	viper.SetDefault("retrieval.min_score", 0.01)
	viper.SetDefault("retrieval.default_top_n", 1)
	viper.SetDefault("retrieval.max_top_n", 3)

	viper.SetDefault("translation.enabled", false)
	viper.SetDefault("translation.source_lang", "tr")
	viper.SetDefault("translation.target_lang", "en")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Retrieval.MinScore < 0 || config.Retrieval.MinScore >= 1 {
		return fmt.Errorf("invalid retrieval min score")
	}
	if config.Retrieval.DefaultTopN <= 0 {
		return fmt.Errorf("invalid retrieval default top n")
	}
	if config.Retrieval.MaxTopN < config.Retrieval.DefaultTopN {
		return fmt.Errorf("invalid retrieval max top n")
	}

	if config.Cache.Enabled {
		if config.Cache.Backend != "memory" && config.Cache.Backend != "redis" {
			return fmt.Errorf("invalid cache backend: %s", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	return nil
}
