package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("AUTH_API_KEYS", testAPIKey)
}

const testAPIKey = "office-test-key"

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{testAPIKey}, cfg.Auth.APIKeys)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "none", cfg.Email.Provider)
	assert.Equal(t, time.Minute, cfg.Redis.RateLimit.Window)
	assert.Equal(t, "https://services.leadconnectorhq.com", cfg.CRM.BaseURL)
	assert.Equal(t, "2021-07-28", cfg.CRM.APIVersion)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	writeConfig(t, `
server:
  port: "9000"
  public_base_url: https://brightnest.example
logging:
  level: debug
email:
  provider: resend
  from: quotes@brightnest.example
  resend:
    api_key: from-file
coverage:
  core: [configs/coverage/core.txt]
`)
	t.Setenv("EMAIL_RESEND_API_KEY", "from-env")
	t.Setenv("AUTH_API_KEYS", "one,two")
	t.Setenv("REDIS_RATELIMIT_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "https://brightnest.example", cfg.Server.PublicBaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "from-env", cfg.Email.Resend.APIKey)
	assert.Equal(t, []string{"one", "two"}, cfg.Auth.APIKeys)
	assert.Equal(t, 30*time.Second, cfg.Redis.RateLimit.Window)
	assert.Equal(t, []string{"configs/coverage/core.txt"}, cfg.Coverage.Core)
}

func TestLoad_PortFallback(t *testing.T) {
	writeConfig(t, "")
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)

	t.Setenv("SERVER_PORT", "4000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	writeConfig(t, "")
	t.Setenv("AUTH_API_KEYS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one API key")
}

func TestLoad_RejectsPublicAPIKey(t *testing.T) {
	writeConfig(t, "auth:\n  api_keys: [apitest]\n")
	t.Setenv("AUTH_API_KEYS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public example key")
}

func TestLoad_Invalid(t *testing.T) {
	writeConfig(t, "database:\n  driver: mysql\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database driver")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: "8080"},
			Auth:     AuthConfig{APIKeys: []string{"k"}},
			Logging:  LoggingConfig{Level: "info"},
			Database: DatabaseConfig{Driver: "memory"},
			Email:    EmailConfig{Provider: "none"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "no api keys", mutate: func(c *Config) { c.Auth.APIKeys = nil }, wantErr: true},
		{name: "public example api key", mutate: func(c *Config) { c.Auth.APIKeys = []string{"k", "apitest"} }, wantErr: true},
		{name: "blank api key", mutate: func(c *Config) { c.Auth.APIKeys = []string{" "} }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: true},
		{
			name: "postgres configured",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Postgres = PostgresConfig{Host: "db", Database: "leads"}
			},
			wantErr: false,
		},
		{name: "resend without key", mutate: func(c *Config) { c.Email.Provider = "resend"; c.Email.From = "a@b.c" }, wantErr: true},
		{name: "ses without from", mutate: func(c *Config) { c.Email.Provider = "ses"; c.Email.SES.Region = "eu-west-2" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Email.Provider = "mailgun" }, wantErr: true},
		{name: "crm without token", mutate: func(c *Config) { c.CRM.Enabled = true }, wantErr: true},
		{
			name: "crm without pipeline",
			mutate: func(c *Config) {
				c.CRM = CRMConfig{Enabled: true, APIToken: "pit-123"}
			},
			wantErr: true,
		},
		{
			name: "crm configured",
			mutate: func(c *Config) {
				c.CRM = CRMConfig{Enabled: true, APIToken: "pit-123", PipelineID: "pipe-1"}
			},
			wantErr: false,
		},
		{name: "sms without phone", mutate: func(c *Config) { c.SMS.Enabled = true }, wantErr: true},
		{name: "rate limit without requests", mutate: func(c *Config) { c.Redis.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "app", Password: "secret", Database: "leads"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=leads sslmode=disable", p.GetDSN())
}
