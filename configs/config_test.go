package configs

import (
	"testing"
	"time"
)

// setupTestEnv sets the variables a valid config needs
func setupTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DATABASE", "test")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("LINE_ENABLED", "false")
	t.Setenv("SESSION_TIMEOUT", "30")
}

// TestEnvironmentOverridesFile tests that env variables replace config.yaml values
func TestEnvironmentOverridesFile(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("TELEGRAM_STORAGE_CHANNEL_ID", "-1001234567890")
	t.Setenv("SESSION_TIMEOUT", "45")
	t.Setenv("AUTH_EVICT_PREVIOUS_SESSION", "false")

	InitViper(".", "test")
	cfg := GetViper()

	if cfg.Telegram.StorageChannelID != -1001234567890 {
		t.Errorf("Expected Telegram.StorageChannelID to be -1001234567890, got %d", cfg.Telegram.StorageChannelID)
	}
	if cfg.Session.Timeout != 45 {
		t.Errorf("Expected Session.Timeout to be 45, got %d", cfg.Session.Timeout)
	}
	if cfg.Auth.EvictPreviousSession {
		t.Error("Expected Auth.EvictPreviousSession to be false")
	}
	if cfg.App.Env != "test" {
		t.Errorf("Expected App.Env to be test, got %s", cfg.App.Env)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

// TestSessionTimeoutDefault tests that a zero timeout falls back to the default
func TestSessionTimeoutDefault(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("SESSION_TIMEOUT", "0")

	InitViper(".", "test")
	cfg := GetViper()

	if got := cfg.SessionTimeout(); got != DefaultSessionTimeout {
		t.Errorf("Expected default session timeout, got %v", got)
	}

	cfg.Session.Timeout = 5
	if got := cfg.SessionTimeout(); got != 5*time.Minute {
		t.Errorf("Expected 5m, got %v", got)
	}
}

// TestValidate tests the required fields of each storage driver
func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:      App{Port: "9089"},
			Storage:  Storage{Driver: DriverPostgres},
			Postgres: Postgres{Host: "localhost", Port: "5432", DbName: "picturedrive"},
			MongoDB:  MongoDB{URI: "mongodb://localhost:27017", Database: "picturedrive"},
			Telegram: Telegram{Token: "123:abc", PollTimeout: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"postgres", func(c *Config) {}, false},
		{"mongodb", func(c *Config) { c.Storage.Driver = DriverMongoDB }, false},
		{"memory without databases", func(c *Config) {
			c.Storage.Driver = DriverMemory
			c.Postgres = Postgres{}
			c.MongoDB = MongoDB{}
		}, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, true},
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, true},
		{"postgres without host", func(c *Config) { c.Postgres.Host = "" }, true},
		{"mongodb without uri", func(c *Config) {
			c.Storage.Driver = DriverMongoDB
			c.MongoDB.URI = ""
		}, true},
		{"line without secret", func(c *Config) {
			c.Line = Line{Enabled: true, ChannelToken: "token"}
		}, true},
		{"line disabled without secret", func(c *Config) { c.Line = Line{Enabled: false} }, false},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }, true},
		{"negative request timeout", func(c *Config) { c.Telegram.RequestTimeout = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestRequestTimeouts tests the Telegram client timeouts
func TestRequestTimeouts(t *testing.T) {
	cfg := Config{Telegram: Telegram{PollTimeout: 60}}
	if got := cfg.RequestTimeout(); got != DefaultRequestTimeout {
		t.Errorf("Expected default request timeout, got %v", got)
	}
	if got := cfg.PollingClientTimeout(); got != 60*time.Second+DefaultRequestTimeout {
		t.Errorf("Expected poll timeout plus request timeout, got %v", got)
	}

	cfg.Telegram.RequestTimeout = 5
	if got := cfg.RequestTimeout(); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}
}
