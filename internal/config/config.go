package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	RunMigrations     bool          `mapstructure:"RUN_MIGRATIONS"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	JWKSURL           string        `mapstructure:"JWKS_URL"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	CartTTL           time.Duration `mapstructure:"CART_TTL"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	CacheWarmInterval time.Duration `mapstructure:"CACHE_WARM_INTERVAL"`
	MinioEndpoint     string        `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey    string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey    string        `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL       bool          `mapstructure:"MINIO_USE_SSL"`
	MinioBucket       string        `mapstructure:"MINIO_BUCKET"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	location *time.Location
}

var defaults = map[string]any{
	"PORT":                "8080",
	"DATABASE_URL":        "",
	"RUN_MIGRATIONS":      true,
	"JWT_SECRET":          "",
	"JWT_TTL":             "24h",
	"JWKS_URL":            "",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"CART_TTL":            "168h",
	"CACHE_TTL":           "10m",
	"CACHE_WARM_INTERVAL": "5m",
	"MINIO_ENDPOINT":      "localhost:9000",
	"MINIO_ACCESS_KEY":    "",
	"MINIO_SECRET_KEY":    "",
	"MINIO_USE_SSL":       false,
	"MINIO_BUCKET":        "foodtruck-images",
	"TIMEZONE":            "UTC",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"SHUTDOWN_TIMEOUT":    "15s",
}

// Load reads configuration from the environment, optionally seeded by an env
// file at path. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.JWTSecret == "" {
		c.JWTSecret = random.String(48)
		log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// Location is the zone pickup times and schedules are evaluated in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
