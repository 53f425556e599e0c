package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	DatabaseDriver string
	DatabaseURL    string
	SessionSecret  string
	PostsPerPage   int
	IndexCacheTTL  time.Duration
	CacheBackend   string
	CacheSize      int
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MediaDir       string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_driver", DriverPostgres)
	v.SetDefault("database_url", "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable")
	v.SetDefault("session_secret", "secret_key_change_me")
	v.SetDefault("posts_per_page", 10)
	v.SetDefault("index_cache_ttl", "20s")
	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("cache_size", 500)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("media_dir", "./media")
	return v
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("port"),
		GinMode:        v.GetString("gin_mode"),
		LogLevel:       v.GetString("log_level"),
		DatabaseDriver: strings.ToLower(v.GetString("database_driver")),
		DatabaseURL:    v.GetString("database_url"),
		SessionSecret:  v.GetString("session_secret"),
		PostsPerPage:   v.GetInt("posts_per_page"),
		IndexCacheTTL:  v.GetDuration("index_cache_ttl"),
		CacheBackend:   strings.ToLower(v.GetString("cache_backend")),
		CacheSize:      v.GetInt("cache_size"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPassword:  v.GetString("redis_password"),
		RedisDB:        v.GetInt("redis_db"),
		MediaDir:       v.GetString("media_dir"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PostsPerPage < 1 {
		return fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", c.PostsPerPage)
	}
	if c.IndexCacheTTL <= 0 {
		return fmt.Errorf("INDEX_CACHE_TTL must be positive, got %s", c.IndexCacheTTL)
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CacheBackend {
	case CacheBackendMemory:
		if c.CacheSize < 1 {
			return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
		}
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}
