package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consortium/internal/platform/config"
)

func TestOptions(t *testing.T) {
	opts, err := Options(config.RedisConfig{
		URL:          "redis://:secret@cache:6380/2",
		PoolSize:     7,
		MinIdleConns: 1,
		ReadTimeout:  time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.Equal(t, time.Second, opts.ReadTimeout)
}

func TestOptions_InvalidURL(t *testing.T) {
	_, err := Options(config.RedisConfig{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "parse redis URL")
}
