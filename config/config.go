package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds Open Food Facts API configuration
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	LookupTimeout  time.Duration `mapstructure:"lookup_timeout"`
	SearchTimeout  time.Duration `mapstructure:"search_timeout"`
	SearchPageSize int           `mapstructure:"search_page_size"`
}

// CacheConfig holds lookup cache configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "redis"
	RedisURL string `mapstructure:"redis_url"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/caloriefinder/")

	v.SetEnvPrefix("CALORIEFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Provider defaults
	v.SetDefault("provider.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("provider.user_agent", "FoodCalorieFinder/2.0")
	v.SetDefault("provider.lookup_timeout", "8s")
	v.SetDefault("provider.search_timeout", "10s")
	v.SetDefault("provider.search_page_size", 25)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base URL is required (set CALORIEFINDER_PROVIDER_BASE_URL)")
	}

	if config.Provider.LookupTimeout <= 0 || config.Provider.SearchTimeout <= 0 {
		return fmt.Errorf("provider timeouts must be positive")
	}

	if config.Provider.SearchPageSize <= 0 {
		return fmt.Errorf("search page size must be positive, got: %d", config.Provider.SearchPageSize)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}

// loadEnvFile reads KEY=VALUE lines from ./.env into the environment.
// Variables that are already set are left alone.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return scanner.Err()
}
