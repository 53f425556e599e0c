package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, 20*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("posts_per_page", 3)
	v.Set("index_cache_ttl", "1m")
	v.Set("cache_backend", "REDIS")
	v.Set("database_driver", "sqlite")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PostsPerPage)
	assert.Equal(t, time.Minute, cfg.IndexCacheTTL)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"zero page size", "posts_per_page", 0},
		{"zero ttl", "index_cache_ttl", "0s"},
		{"unknown driver", "database_driver", "mysql"},
		{"unknown cache", "cache_backend", "memcached"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestFromViper_ReadsEnvironment(t *testing.T) {
	t.Setenv("POSTS_PER_PAGE", "25")
	t.Setenv("MEDIA_DIR", "/tmp/media")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PostsPerPage)
	assert.Equal(t, "/tmp/media", cfg.MediaDir)
}
