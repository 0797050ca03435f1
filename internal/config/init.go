package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPostsPerPage      = 10
	DefaultIndexCacheTTL     = 20 * time.Second
	DefaultPostSummaryLength = 15
)

// Config is the typed view of the process environment.
type Config struct {
	Env     string
	AppPort string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	AdminUsernames []string

	PostsPerPage      int
	IndexCacheTTL     time.Duration
	PostSummaryLength int

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// LoadDotEnv loads .env into the environment if the file exists.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads the configuration from the environment. DB_DSN and JWT_SECRET
// are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		AppPort:           getEnv("APP_PORT", "8080"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBDSN:             os.Getenv("DB_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          getEnv("S3_BUCKET", "post-images"),
		RedisDB:           0,
		PostsPerPage:      DefaultPostsPerPage,
		IndexCacheTTL:     DefaultIndexCacheTTL,
		PostSummaryLength: DefaultPostSummaryLength,
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.PostsPerPage, err = getInt("POSTS_PER_PAGE", DefaultPostsPerPage); err != nil {
		return nil, err
	}
	if cfg.PostsPerPage < 1 {
		return nil, errors.New("POSTS_PER_PAGE must be positive")
	}
	if cfg.PostSummaryLength, err = getInt("POST_SUMMARY_LENGTH", DefaultPostSummaryLength); err != nil {
		return nil, err
	}
	ttl, err := getInt("INDEX_CACHE_TTL", int(DefaultIndexCacheTTL/time.Second))
	if err != nil {
		return nil, err
	}
	if ttl < 1 {
		return nil, errors.New("INDEX_CACHE_TTL must be positive")
	}
	cfg.IndexCacheTTL = time.Duration(ttl) * time.Second
	for _, name := range strings.Split(os.Getenv("ADMIN_USERNAMES"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.AdminUsernames = append(cfg.AdminUsernames, name)
		}
	}
	if v := os.Getenv("S3_USE_SSL"); v != "" {
		if cfg.S3UseSSL, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("S3_USE_SSL: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
