package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is resolved once at startup and passed by reference.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	MySQLHost     string
	MySQLPort     string
	MySQLDB       string
	MySQLUser     string
	MySQLPass     string
	DBLogLevel    string
	DBAutoMigrate bool

	RedisAddr string
	RedisDB   int

	IdempTTLSecs    int
	ShutdownTimeout time.Duration

	DefaultCurrency     string
	AttachmentURLPrefix string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		AppEnv:   getenv("APP_ENV", "production"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MySQLHost:     getenv("MYSQL_HOST", "mysql"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDB:       getenv("MYSQL_DB", "sourcing"),
		MySQLUser:     getenv("MYSQL_USER", "sourcing"),
		MySQLPass:     getenv("MYSQL_PASS", "sourcing"),
		DBLogLevel:    getenv("DB_LOG_LEVEL", "warn"),
		DBAutoMigrate: getbool("DB_AUTO_MIGRATE", true),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:    getint("IDEMPOTENCY_TTL_SECONDS", 300),
		ShutdownTimeout: time.Duration(getint("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,

		DefaultCurrency:     strings.ToUpper(getenv("DEFAULT_CURRENCY", "CNY")),
		AttachmentURLPrefix: strings.TrimRight(getenv("ATTACHMENT_URL_PREFIX", "/uploads/rfq-attachments"), "/"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("invalid DEFAULT_CURRENCY %q", c.DefaultCurrency)
	}
	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid DB_LOG_LEVEL %q", c.DBLogLevel)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true lets goose run a migration file in one Exec; parseTime is needed for DATETIME.
	// clientFoundRows makes RowsAffected count matched rows, which the guarded updates rely on.
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&clientFoundRows=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
