package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"records/internal/domain/account"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Password schemes
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// Default configuration values
const (
	DefaultEnvFile        = ".env"
	DefaultDriver         = DriverSQLite
	DefaultSQLitePath     = "records.db"
	DefaultMongoURI       = "mongodb://localhost:27017"
	DefaultMongoDatabase  = "records"
	DefaultPasswordScheme = SchemePlain
	DefaultBcryptCost     = bcrypt.DefaultCost
	DefaultMaxRedirects   = 4
	DefaultSlowQueryMS    = 50
)

var (
	ErrUnknownDriver     = errors.New("unknown storage driver")
	ErrUnknownScheme     = errors.New("unknown password scheme")
	ErrMissingDSN        = errors.New("storage driver needs a connection string")
	ErrInvalidBcryptCost = errors.New("bcrypt cost out of range")
	ErrInvalidRedirects  = errors.New("max redirects must be at least 1")
)

// Storage configuration
type StorageConfig struct {
	Driver        string
	SQLitePath    string
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string
	SlowQuery     time.Duration
}

// Auth configuration
type AuthConfig struct {
	PasswordScheme string
	BcryptCost     int
}

// Records policy configuration
type RecordsConfig struct {
	UniqueEmployeeIDs bool
}

// Router configuration
type RouterConfig struct {
	MaxRedirects int
}

// Config holds all application configuration
type Config struct {
	Storage StorageConfig
	Auth    AuthConfig
	Records RecordsConfig
	Router  RouterConfig
}

// Load reads envFile into the environment when it exists, then builds and
// validates the configuration. Variables already set take precedence.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := New()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New returns a Config from the environment with defaults applied.
func New() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("RECORDS_STORAGE_DRIVER", DefaultDriver)),
			SQLitePath:    getEnv("RECORDS_SQLITE_PATH", DefaultSQLitePath),
			MySQLDSN:      getEnv("RECORDS_MYSQL_DSN", ""),
			MongoURI:      getEnv("RECORDS_MONGO_URI", DefaultMongoURI),
			MongoDatabase: getEnv("RECORDS_MONGO_DATABASE", DefaultMongoDatabase),
			SlowQuery:     time.Duration(getEnvInt("RECORDS_SLOW_QUERY_MS", DefaultSlowQueryMS)) * time.Millisecond,
		},
		Auth: AuthConfig{
			PasswordScheme: strings.ToLower(getEnv("RECORDS_PASSWORD_SCHEME", DefaultPasswordScheme)),
			BcryptCost:     getEnvInt("RECORDS_BCRYPT_COST", DefaultBcryptCost),
		},
		Records: RecordsConfig{
			UniqueEmployeeIDs: getEnvBool("RECORDS_UNIQUE_EMPLOYEE_IDS", false),
		},
		Router: RouterConfig{
			MaxRedirects: getEnvInt("RECORDS_MAX_REDIRECTS", DefaultMaxRedirects),
		},
	}
}

// Validate checks the configuration for values the app cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverMySQL:
		if c.Storage.MySQLDSN == "" {
			return fmt.Errorf("%w: RECORDS_MYSQL_DSN", ErrMissingDSN)
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("%w: RECORDS_MONGO_URI", ErrMissingDSN)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}

	switch c.Auth.PasswordScheme {
	case SchemePlain:
	case SchemeBcrypt:
		if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.Auth.BcryptCost)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScheme, c.Auth.PasswordScheme)
	}

	if c.Router.MaxRedirects < 1 {
		return ErrInvalidRedirects
	}
	return nil
}

// Scheme returns the password scheme selected by the configuration.
func (a *AuthConfig) Scheme() account.Scheme {
	if a.PasswordScheme == SchemeBcrypt {
		return account.BcryptScheme{Cost: a.BcryptCost}
	}
	return account.PlaintextScheme{}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
