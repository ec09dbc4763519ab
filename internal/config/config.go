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

// Supported values of DB_DRIVER
const (
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx stdlib
	DriverSQLite   = "sqlite"   // modernc.org/sqlite
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Storage  StorageConfig
	Mail     MailConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	Username     string
	Password     string
	DBName       string
	SSLMode      string
	Path         string // SQLite file or DSN
	SeedDefaults bool
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig points at an S3-compatible bucket for attachments.
// An empty Bucket disables attachments.
type StorageConfig struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	PresignTTL time.Duration
}

// MailConfig selects the password reset mail transport.
// An empty AMQPURL selects the log mailer.
type MailConfig struct {
	AMQPURL  string
	Exchange string
	Queue    string
	From     string
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables. A .env file
// in the working directory is applied first when present; variables already
// set in the environment win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			Username:     getEnv("DB_USERNAME", "postgres"),
			Password:     getEnv("DB_PASSWORD", "password"),
			DBName:       getEnv("DB_NAME", "fintrack"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			Path:         getEnv("DB_PATH", "fintrack.db"),
			SeedDefaults: getEnvAsBool("DB_SEED_DEFAULTS", true),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-here"),
			AccessTokenTTL: getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL:  getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Storage: StorageConfig{
			Bucket:     getEnv("S3_BUCKET", ""),
			Region:     getEnv("S3_REGION", "us-east-1"),
			Endpoint:   getEnv("S3_ENDPOINT", ""),
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
			PresignTTL: getEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
		Mail: MailConfig{
			AMQPURL:  getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "fintrack"),
			Queue:    getEnv("AMQP_MAIL_QUEUE", "password_reset"),
			From:     getEnv("MAIL_FROM", "no-reply@fintrack.local"),
		},
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
