package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
)

// Environment name constants used in NODE_ENV config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// DefaultSessionSecret is the fallback SESSION_SECRET. Rejected in production.
const DefaultSessionSecret = "carrito-gamer-secret"

// Config holds all configuration for the application
type Config struct {
	// Database (MySQL). The MYSQL* variables are the names Railway injects;
	// when present they win over the DB_* ones.
	DBHost           string        `conf:"default:localhost,env:DB_HOST"`
	DBUser           string        `conf:"default:root,env:DB_USER"`
	DBPassword       string        `conf:"default:724058,env:DB_PASSWORD,noprint"`
	DBName           string        `conf:"default:carrito_gamer,env:DB_NAME"`
	DBPort           int           `conf:"default:3306,env:DB_PORT"`
	DBPoolSize       int           `conf:"default:10,env:DB_POOL_SIZE"`
	DBConnectTimeout time.Duration `conf:"default:60s,env:DB_CONNECT_TIMEOUT"`
	DBQueryTimeout   time.Duration `conf:"default:60s,env:DB_QUERY_TIMEOUT"`

	RailwayHost     string `conf:"env:MYSQLHOST"`
	RailwayUser     string `conf:"env:MYSQLUSER"`
	RailwayPassword string `conf:"env:MYSQLPASSWORD,noprint"`
	RailwayDatabase string `conf:"env:MYSQLDATABASE"`
	RailwayPort     string `conf:"env:MYSQLPORT"`

	// Redis (sessions, product cache, best-seller ranking)
	RedisURL string `conf:"default:redis://localhost:6379,env:REDIS_URL"`

	// Application
	Port        int    `conf:"default:3000,env:PORT"`
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:NODE_ENV"`

	// Session
	SessionSecret string `conf:"default:carrito-gamer-secret,env:SESSION_SECRET,noprint"`

	// CORS: comma-separated allowed origins, * allows all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Observability
	ServiceName    string `conf:"default:gamercart,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	unsetEmpty()
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// unsetEmpty removes config variables that are set to the empty string, so
// "PORT=" falls back to the default instead of failing to parse and
// "SESSION_SECRET=" cannot produce an empty secret.
func unsetEmpty() {
	for _, key := range envKeys() {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) == "" {
			_ = os.Unsetenv(key)
		}
	}
}

// envKeys lists the env names declared in Config's conf tags.
func envKeys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		for _, opt := range strings.Split(t.Field(i).Tag.Get("conf"), ",") {
			if name, ok := strings.CutPrefix(opt, "env:"); ok {
				keys = append(keys, name)
			}
		}
	}
	return keys
}

// String renders the configuration for operators, hiding noprint fields.
func String(cfg *Config) string {
	out, err := conf.String(cfg)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return out
}

// resolve folds the Railway-style variables into the DB_* fields.
func (c *Config) resolve() error {
	if c.RailwayHost != "" {
		c.DBHost = c.RailwayHost
	}
	if c.RailwayUser != "" {
		c.DBUser = c.RailwayUser
	}
	if c.RailwayPassword != "" {
		c.DBPassword = c.RailwayPassword
	}
	if c.RailwayDatabase != "" {
		c.DBName = c.RailwayDatabase
	}
	if c.RailwayPort != "" {
		port, err := strconv.Atoi(c.RailwayPort)
		if err != nil {
			return fmt.Errorf("invalid MYSQLPORT %q: %w", c.RailwayPort, err)
		}
		c.DBPort = port
	}
	if c.DBPoolSize < 1 {
		c.DBPoolSize = 1
	}
	return nil
}

// IsProduction reports whether NODE_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// SecureTransport is the single switch for the session cookie Secure flag and
// MySQL TLS. Both are forced on in production and off everywhere else.
func (c *Config) SecureTransport() bool {
	return c.IsProduction()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DatabaseDSN builds the go-sql-driver/mysql DSN from the DB_* fields.
func (c *Config) DatabaseDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
	mc.DBName = c.DBName
	mc.ParseTime = true
	// Affected-row counts report matched rows, so an UPDATE that changes
	// nothing still proves the row exists.
	mc.ClientFoundRows = true
	mc.Timeout = c.DBConnectTimeout
	mc.ReadTimeout = c.DBQueryTimeout
	mc.WriteTimeout = c.DBQueryTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if c.SecureTransport() {
		mc.TLSConfig = "skip-verify"
	}
	return mc.FormatDSN()
}

// SessionKeys derives the HMAC (32 bytes) and AES (32 bytes) keys used by the
// session store from SESSION_SECRET.
func (c *Config) SessionKeys() (authKey, encryptionKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("gamercart session keys"))
	authKey = make([]byte, 32)
	encryptionKey = make([]byte, 32)
	if _, err := io.ReadFull(r, authKey); err != nil {
		return nil, nil, fmt.Errorf("derive session auth key: %w", err)
	}
	if _, err := io.ReadFull(r, encryptionKey); err != nil {
		return nil, nil, fmt.Errorf("derive session encryption key: %w", err)
	}
	return authKey, encryptionKey, nil
}

// ValidateForProduction enforces security requirements when NODE_ENV=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if !cfg.IsProduction() {
		return nil
	}

	var errs []string

	if cfg.SessionSecret == DefaultSessionSecret {
		errs = append(errs, "SESSION_SECRET must be set in production")
	}

	if len(cfg.SessionSecret) < 32 {
		errs = append(errs, fmt.Sprintf(
			"SESSION_SECRET must be at least 32 bytes (got %d); generate with: openssl rand -base64 32",
			len(cfg.SessionSecret),
		))
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
