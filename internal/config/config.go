package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL fails startup when no database is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Settings is the explicit process configuration. It is built once at
// startup and passed to whatever needs it; there is no cached global.
type Settings struct {
	App      AppSettings
	Database DatabaseSettings
	Clerk    ClerkSettings
	AWS      AWSSettings
	Redis    RedisSettings
	Logger   LoggerSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Description string
}

type DatabaseSettings struct {
	URL string
}

// ClerkSettings configures the external authentication provider. The data
// layer only carries the values; token validation happens elsewhere.
type ClerkSettings struct {
	SecretKey string
	JWKSURL   string
}

// AWSSettings configures the product image bucket consumed by the
// out-of-process image service.
type AWSSettings struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	S3BucketName    string
}

type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

type LoggerSettings struct {
	Level    string
	Encoding string
}

// Load reads settings from the environment, after merging an optional
// .env file. Missing DATABASE_URL is a hard error; everything else falls
// back to a sensible default.
func Load() (*Settings, error) {
	// Ignore a missing .env; the environment may be fully set already.
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	return &Settings{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "Gastronom Backend"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Description: getEnv("APP_DESCRIPTION", "Backend for Gastronom application"),
		},
		Database: DatabaseSettings{
			URL: databaseURL,
		},
		Clerk: ClerkSettings{
			SecretKey: getEnv("CLERK_SECRET_KEY", ""),
			JWKSURL:   getEnv("CLERK_JWKS_URL", "https://api.clerk.com/v1/jwks"),
		},
		AWS: AWSSettings{
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Region:          getEnv("AWS_REGION", "eu-south-1"),
			S3BucketName:    getEnv("AWS_S3_BUCKET_NAME", "gastronom-product-images"),
		},
		Redis: RedisSettings{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logger: LoggerSettings{
			Level:    getEnv("LOGGER_LEVEL", "info"),
			Encoding: getEnv("LOGGER_ENCODING", "console"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
