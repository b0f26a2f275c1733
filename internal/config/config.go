// Package config loads service configuration from an optional file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. COMPSHERPA_SERVER_PORT.
const EnvPrefix = "COMPSHERPA"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Report    ReportConfig    `mapstructure:"report"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
}

// DatabaseConfig selects the persistence backend. Driver is postgres, sqlite or none.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// CacheConfig selects the server-side report cache. Backend is memory, redis or none.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	Size          int           `mapstructure:"size"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ProviderConfig configures the hosted model. An empty APIKey means the provider is
// unavailable and every report comes from the fallback.
type ProviderConfig struct {
	Name      string        `mapstructure:"name"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	SaveTimeout time.Duration `mapstructure:"save_timeout"`
}

type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	DefaultLimit   int           `mapstructure:"default_limit"`
	DefaultWindow  time.Duration `mapstructure:"default_window"`
	GenerateLimit  int           `mapstructure:"generate_limit"`
	GenerateWindow time.Duration `mapstructure:"generate_window"`
	IdleTTL        time.Duration `mapstructure:"idle_ttl"`
	Whitelist      []string      `mapstructure:"whitelist"`
	Blacklist      []string      `mapstructure:"blacklist"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the unprefixed variable names deployments already use.
// Earlier names win.
var legacyEnv = map[string][]string{
	"server.port":         {"PORT"},
	"database.url":        {"DATABASE_URL"},
	"cache.redis_addr":    {"REDIS_ADDR"},
	"provider.max_tokens": {"CLAUDE_MAX_TOKENS"},
}

// providerKeyEnv lists the unprefixed API key variables per provider. Only the
// selected provider's names are bound, so a Gemini key never reaches Anthropic.
var providerKeyEnv = map[string][]string{
	"anthropic": {"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	"gemini":    {"GEMINI_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origin", "*")

	v.SetDefault("database.driver", "none")
	v.SetDefault("database.url", "")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("provider.name", "anthropic")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.max_tokens", 2000)
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.timeout", 30*time.Second)

	v.SetDefault("report.save_timeout", 10*time.Second)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.default_limit", 1000)
	v.SetDefault("ratelimit.default_window", time.Minute)
	v.SetDefault("ratelimit.generate_limit", 30)
	v.SetDefault("ratelimit.generate_window", time.Hour)
	v.SetDefault("ratelimit.idle_ttl", time.Hour)
	v.SetDefault("ratelimit.whitelist", []string{})
	v.SetDefault("ratelimit.blacklist", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration. path may be empty, in which case only defaults and the
// environment apply. A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key, envName(key)}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("provider.name")))
	keyEnv := append([]string{"provider.api_key", envName("provider.api_key")}, providerKeyEnv[provider]...)
	if err := v.BindEnv(keyEnv...); err != nil {
		return nil, fmt.Errorf("failed to bind env for provider.api_key: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("database.url is required for driver %q", c.Database.Driver))
		}
	case "none", "":
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Cache.Backend {
	case "memory":
		if c.Cache.Size <= 0 {
			errs = append(errs, fmt.Errorf("cache.size must be positive"))
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("cache.redis_addr is required for the redis backend"))
		}
	case "none", "":
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}

	switch c.Provider.Name {
	case "anthropic", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unknown provider.name %q", c.Provider.Name))
	}
	if c.Provider.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("provider.max_tokens must be positive"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be positive"))
	}
	if c.Report.SaveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("report.save_timeout must be positive"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 0 || c.RateLimit.GenerateLimit < 0 {
			errs = append(errs, fmt.Errorf("ratelimit limits must be non-negative"))
		}
		if c.RateLimit.DefaultWindow <= 0 || c.RateLimit.GenerateWindow <= 0 {
			errs = append(errs, fmt.Errorf("ratelimit windows must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}
