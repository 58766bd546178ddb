package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	DocstoreDriver string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Storage StorageConfig
	SMTP    SMTPConfig

	RFQExpiryWindow  time.Duration
	RFQSweepInterval time.Duration

	CORSOrigin        string
	InternalSecretKey string
}

type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
}

// Enabled reports whether enough is configured to talk to an S3 bucket.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		DocstoreDriver: getEnv("DOCSTORE_DRIVER", DriverPostgres),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Storage: StorageConfig{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@tradehub.local"),
		},

		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RFQExpiryWindow, err = getDuration("RFQ_EXPIRY_WINDOW", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RFQSweepInterval, err = getDuration("RFQ_SWEEP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}
	if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
		if cfg.Storage.UsePathStyle, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid S3_USE_PATH_STYLE: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DocstoreDriver {
	case DriverPostgres:
		if c.DBHost == "" {
			return errors.New("DB_HOST is required for the postgres document store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DOCSTORE_DRIVER: %s", c.DocstoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RFQExpiryWindow <= 0 {
		return errors.New("RFQ_EXPIRY_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
