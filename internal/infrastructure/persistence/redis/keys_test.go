package redis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"genlog-api/internal/config"
)

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "genlog:options:app-1:models", BuildOptionKey("app-1", OptionModels))
	assert.Equal(t, "genlog:options:app-1:tags", BuildOptionKey("app-1", OptionTags))
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(redis.Nil))
	assert.True(t, IsNil(fmt.Errorf("get: %w", redis.Nil)))
	assert.False(t, IsNil(errors.New("boom")))
	assert.False(t, IsNil(nil))
}

func TestNewOptionCacheDefaultsTTL(t *testing.T) {
	c := NewOptionCache(nil, 0)
	assert.Positive(t, c.ttl)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := optionsFrom(&config.RedisConfig{Host: "cache.internal", Port: 6380, DB: 2, PoolSize: 16})
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 16, opts.PoolSize)
}
