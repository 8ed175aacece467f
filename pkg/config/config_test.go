package config

import (
	"bytes"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func baseConfig() *Config {
	return &Config{
		DBHost:        "localhost",
		DBUser:        "root",
		DBPassword:    "724058",
		DBName:        "carrito_gamer",
		DBPort:        3306,
		DBPoolSize:    10,
		Environment:   EnvDevelopment,
		SessionSecret: DefaultSessionSecret,
		LogLevel:      "info",
		Port:          3000,
	}
}

func TestResolve_RailwayOverridesDB(t *testing.T) {
	cfg := baseConfig()
	cfg.RailwayHost = "containers.railway.app"
	cfg.RailwayUser = "railway"
	cfg.RailwayPassword = "secret"
	cfg.RailwayDatabase = "railway"
	cfg.RailwayPort = "7012"

	if err := cfg.resolve(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBHost != "containers.railway.app" || cfg.DBUser != "railway" ||
		cfg.DBPassword != "secret" || cfg.DBName != "railway" || cfg.DBPort != 7012 {
		t.Fatalf("railway values not applied: %+v", cfg)
	}
}

func TestResolve_KeepsDBValuesWithoutRailway(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.resolve(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBHost != "localhost" || cfg.DBPort != 3306 {
		t.Fatalf("unexpected override: %+v", cfg)
	}
}

func TestResolve_InvalidRailwayPort(t *testing.T) {
	cfg := baseConfig()
	cfg.RailwayPort = "abc"
	if err := cfg.resolve(); err == nil {
		t.Fatal("expected error for non-numeric MYSQLPORT")
	}
}

func TestResolve_PoolSizeAtLeastOne(t *testing.T) {
	cfg := baseConfig()
	cfg.DBPoolSize = 0
	_ = cfg.resolve()
	if cfg.DBPoolSize != 1 {
		t.Fatalf("expected pool size 1, got %d", cfg.DBPoolSize)
	}
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("development has no TLS", func(t *testing.T) {
		mc, err := mysql.ParseDSN(baseConfig().DatabaseDSN())
		if err != nil {
			t.Fatalf("parse dsn: %v", err)
		}
		if mc.Addr != "localhost:3306" || mc.DBName != "carrito_gamer" || mc.User != "root" {
			t.Fatalf("unexpected dsn fields: %+v", mc)
		}
		if mc.TLSConfig != "" {
			t.Fatalf("expected no TLS, got %q", mc.TLSConfig)
		}
		if !mc.ParseTime || !mc.ClientFoundRows {
			t.Fatal("expected parseTime and clientFoundRows")
		}
	})

	t.Run("production forces TLS", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environment = EnvProduction
		mc, err := mysql.ParseDSN(cfg.DatabaseDSN())
		if err != nil {
			t.Fatalf("parse dsn: %v", err)
		}
		if mc.TLSConfig != "skip-verify" {
			t.Fatalf("expected skip-verify TLS, got %q", mc.TLSConfig)
		}
	})
}

func TestSecureTransport(t *testing.T) {
	for env, want := range map[string]bool{
		EnvDevelopment: false,
		EnvTesting:     false,
		EnvProduction:  true,
	} {
		cfg := baseConfig()
		cfg.Environment = env
		if got := cfg.SecureTransport(); got != want {
			t.Errorf("%s: got %v, want %v", env, got, want)
		}
	}
}

func TestSessionKeys(t *testing.T) {
	cfg := baseConfig()
	auth1, enc1, err := cfg.SessionKeys()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(auth1) != 32 || len(enc1) != 32 {
		t.Fatalf("unexpected key sizes: %d, %d", len(auth1), len(enc1))
	}
	if bytes.Equal(auth1, enc1) {
		t.Fatal("auth and encryption keys must differ")
	}

	auth2, _, _ := cfg.SessionKeys()
	if !bytes.Equal(auth1, auth2) {
		t.Fatal("key derivation must be deterministic")
	}

	cfg.SessionSecret = "another-secret"
	auth3, _, _ := cfg.SessionKeys()
	if bytes.Equal(auth1, auth3) {
		t.Fatal("different secrets must derive different keys")
	}
}

func TestValidateForProduction(t *testing.T) {
	t.Run("development is not validated", func(t *testing.T) {
		if err := ValidateForProduction(baseConfig()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("production rejects defaults", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environment = EnvProduction
		cfg.LogLevel = "debug"
		err := ValidateForProduction(cfg)
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"SESSION_SECRET must be set", "at least 32 bytes", "LOG_LEVEL"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q missing %q", err, want)
			}
		}
	})

	t.Run("production accepts strong secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environment = EnvProduction
		cfg.SessionSecret = strings.Repeat("k", 48)
		if err := ValidateForProduction(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys() {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestEnvKeys(t *testing.T) {
	keys := envKeys()
	for _, want := range []string{"DB_HOST", "DB_PORT", "PORT", "SESSION_SECRET", "NODE_ENV", "MYSQLPORT", "SENTRY_DSN"} {
		if !slices.Contains(keys, want) {
			t.Errorf("envKeys missing %s", want)
		}
	}
}

func TestLoad_EmptyVariablesUseDefaults(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(*Config) bool
	}{
		{"PORT", "", func(c *Config) bool { return c.Port == 3000 }},
		{"DB_PORT", "", func(c *Config) bool { return c.DBPort == 3306 }},
		{"DB_HOST", "", func(c *Config) bool { return c.DBHost == "localhost" }},
		{"SESSION_SECRET", "", func(c *Config) bool { return c.SessionSecret == DefaultSessionSecret }},
		{"NODE_ENV", "", func(c *Config) bool { return c.Environment == EnvDevelopment }},
		{"DB_QUERY_TIMEOUT", "", func(c *Config) bool { return c.DBQueryTimeout.String() == "1m0s" }},
		{"MYSQLPORT", "", func(c *Config) bool { return c.DBPort == 3306 }},
		{"PORT", "   ", func(c *Config) bool { return c.Port == 3000 }},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !tt.check(cfg) {
				t.Fatalf("%s=%q did not fall back to its default: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestLoad_SetValuesWin(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SESSION_SECRET", "otro-secreto")
	t.Setenv("MYSQLPORT", "3307")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.DBHost != "db.internal" || cfg.SessionSecret != "otro-secreto" || cfg.DBPort != 3307 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_EmptySecretStillRejectedInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("NODE_ENV", EnvProduction)
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := ValidateForProduction(cfg); err == nil {
		t.Fatal("an empty SESSION_SECRET must not pass production validation")
	}
}
