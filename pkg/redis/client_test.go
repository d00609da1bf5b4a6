package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juvshop/juv-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)
}

func TestOptionsFromConfigFromAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:      "localhost:6379",
		Password:     "pw",
		DB:           2,
		PoolSize:     5,
		MinIdleConns: 1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 4 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestOptionsFromConfigFromURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache.internal:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)
}

func TestSessionKeyNamespacing(t *testing.T) {
	c := &Client{}
	assert.Equal(t, "juv:assistant_session:195830791", c.SessionKey(195830791))
	assert.Equal(t, "juv:counter:orders", c.CounterKey("orders"))
}
