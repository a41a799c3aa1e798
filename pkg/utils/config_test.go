package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", config.App.Port)
	assert.Equal(t, "memory", config.Store.Driver)
	assert.Equal(t, "memory", config.Feed.Driver)
	assert.Equal(t, 4, config.Booking.DefaultHorizon)
	assert.Equal(t, 52, config.Booking.MaxHorizon)
	assert.Equal(t, 1024, config.Feed.DedupSize)
	assert.Equal(t, "trainer-booking.changes", config.Feed.Exchange)
	assert.True(t, config.Database.AutoMigrate)
	assert.False(t, config.Security.TrustProxyHeaders)

	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("FEED_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("BOOKING_DEFAULT_HORIZON", "8")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", config.Store.Driver)
	assert.Equal(t, "redis", config.Feed.Driver)
	assert.Equal(t, "cache:6379", config.Feed.RedisAddr)
	assert.Equal(t, 8, config.Booking.DefaultHorizon)
	assert.True(t, config.Security.TrustProxyHeaders)

	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoadConfigRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("FEED_DRIVER", "kafka")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "FEED_DRIVER")
}

func TestConfigValidateHorizon(t *testing.T) {
	config := &Config{
		Store:   StoreConfig{Driver: "memory"},
		Feed:    FeedConfig{Driver: "memory"},
		Booking: BookingConfig{DefaultHorizon: 10, MaxHorizon: 5},
	}
	assert.Error(t, config.Validate())

	config.Booking.MaxHorizon = 10
	assert.NoError(t, config.Validate())
}
