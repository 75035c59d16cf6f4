package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by the record store factory.
const (
	StoreDriverMemory   = "memory"
	StoreDriverBolt     = "bolt"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Store     StoreConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects and tunes the record store backend.
type StoreConfig struct {
	Driver    string
	BoltPath  string
	KeyPrefix string
	Seed      bool
	Timeout   time.Duration
}

// CatalogConfig governs caching of catalog reads.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	PopularLimit int
}

// RateLimitConfig controls the fixed-window limiter on auth endpoints.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Store = StoreConfig{
		Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		BoltPath:  v.GetString("STORE_BOLT_PATH"),
		KeyPrefix: v.GetString("STORE_KEY_PREFIX"),
		Seed:      v.GetBool("STORE_SEED"),
		Timeout:   parseDuration(v.GetString("STORE_TIMEOUT"), 5*time.Second),
	}

	popular := v.GetInt("CATALOG_POPULAR_LIMIT")
	if popular <= 0 {
		popular = 6
	}
	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("CATALOG_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
		PopularLimit: popular,
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:     v.GetBool("RATE_LIMIT_ENABLED"),
		MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		Window:      parseDuration(v.GetString("RATE_LIMIT_WINDOW"), 15*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "learnhub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "learnhub-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("STORE_BOLT_PATH", "./data/learnhub.db")
	v.SetDefault("STORE_KEY_PREFIX", "learnhub:")
	v.SetDefault("STORE_SEED", true)
	v.SetDefault("STORE_TIMEOUT", "5s")

	v.SetDefault("CATALOG_CACHE_ENABLED", false)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("CATALOG_POPULAR_LIMIT", 6)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
}

// isMissingFile reports the error viper returns when an explicit .env path does not exist.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
