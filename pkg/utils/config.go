package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Feed      FeedConfig
	Booking   BookingConfig
	Tracing   TracingConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

type StoreConfig struct {
	Driver string // postgres | memory
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type FeedConfig struct {
	Driver        string // memory | amqp | redis
	RabbitURL     string
	Exchange      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DedupSize     int
}

type BookingConfig struct {
	DefaultHorizon int
	MaxHorizon     int
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

type SecurityConfig struct {
	// ServiceTokenHash is a bcrypt hash. Empty disables the token guard.
	ServiceTokenHash string
	// TrustProxyHeaders lets X-Forwarded-For / X-Real-IP replace the peer
	// address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Deployments inject env vars directly; a missing .env is fine.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Port:     v.GetString("PORT"),
			Debug:    v.GetBool("DEBUG"),
			LogPath:  v.GetString("LOG_PATH"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Feed: FeedConfig{
			Driver:        strings.ToLower(v.GetString("FEED_DRIVER")),
			RabbitURL:     v.GetString("RABBIT_URL"),
			Exchange:      v.GetString("FEED_EXCHANGE"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			DedupSize:     v.GetInt("FEED_DEDUP_SIZE"),
		},
		Booking: BookingConfig{
			DefaultHorizon: v.GetInt("BOOKING_DEFAULT_HORIZON"),
			MaxHorizon:     v.GetInt("BOOKING_MAX_HORIZON"),
		},
		Tracing: TracingConfig{
			Enabled:  v.GetBool("OTEL_ENABLED"),
			Endpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Security: SecurityConfig{
			ServiceTokenHash:  v.GetString("SERVICE_TOKEN_HASH"),
			TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "trainer-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "UTC")

	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("FEED_DRIVER", "memory")
	v.SetDefault("FEED_EXCHANGE", "trainer-booking.changes")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FEED_DEDUP_SIZE", 1024)

	v.SetDefault("BOOKING_DEFAULT_HORIZON", 4)
	v.SetDefault("BOOKING_MAX_HORIZON", 52)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	v.SetDefault("TRUST_PROXY_HEADERS", false)

	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Feed.Driver {
	case "memory", "amqp", "redis":
	default:
		return fmt.Errorf("unknown FEED_DRIVER %q", c.Feed.Driver)
	}
	if c.Booking.DefaultHorizon <= 0 || c.Booking.MaxHorizon < c.Booking.DefaultHorizon {
		return fmt.Errorf("booking horizon must satisfy 0 < default (%d) <= max (%d)",
			c.Booking.DefaultHorizon, c.Booking.MaxHorizon)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE, the zone that defines "today".
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
