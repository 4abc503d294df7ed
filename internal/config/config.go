package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all configuration for the application.
// Values come from defaults, configs/config.yaml, .env and the environment,
// in increasing order of precedence.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Email    EmailConfig    `mapstructure:"email"`
	SMS      SMSConfig      `mapstructure:"sms"`
	CRM      CRMConfig      `mapstructure:"crm"`
	Coverage CoverageConfig `mapstructure:"coverage"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
}

type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	RequestTimeout  int      `mapstructure:"request_timeout"`
	PublicBaseURL   string   `mapstructure:"public_base_url"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"` // Valid API keys for the admin endpoints
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // memory or postgres
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
}

// GetDSN builds a lib/pq connection string
func (p PostgresConfig) GetDSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, sslMode,
	)
}

type RedisConfig struct {
	Enabled   bool            `mapstructure:"enabled"`
	Address   string          `mapstructure:"address"`
	Password  string          `mapstructure:"password"`
	DB        int             `mapstructure:"db"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type EmailConfig struct {
	Provider string       `mapstructure:"provider"` // resend, ses or none
	From     string       `mapstructure:"from"`
	OfficeTo string       `mapstructure:"office_to"`
	Resend   ResendConfig `mapstructure:"resend"`
	SES      SESConfig    `mapstructure:"ses"`
	SMTP     SMTPConfig   `mapstructure:"smtp"`
}

type ResendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SMSConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Region      string `mapstructure:"region"`
	OfficePhone string `mapstructure:"office_phone"`
	SenderID    string `mapstructure:"sender_id"`
}

type CRMConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	BaseURL         string `mapstructure:"base_url"`
	APIToken        string `mapstructure:"api_token"`
	APIVersion      string `mapstructure:"api_version"`
	LocationID      string `mapstructure:"location_id"`
	PipelineID      string `mapstructure:"pipeline_id"`
	PipelineStageID string `mapstructure:"pipeline_stage_id"`
}

// CoverageConfig lists postcode district sources. Each entry is a local
// path or an http(s) URL; entries ending in .gz are gunzipped.
type CoverageConfig struct {
	Core  []string `mapstructure:"core"`
	Outer []string `mapstructure:"outer"`
}

type PricingConfig struct {
	File string `mapstructure:"file"`
}

// knownPublicKeys are example keys published in docs and sample configs
var knownPublicKeys = map[string]bool{"apitest": true}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured (auth.api_keys or AUTH_API_KEYS)")
	}
	for _, key := range c.Auth.APIKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("auth.api_keys must not contain blank keys")
		}
		if knownPublicKeys[key] {
			return fmt.Errorf("auth.api_keys contains the public example key %q", key)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.Postgres.Host == "" || c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.host and database.postgres.database are required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be memory or postgres)", c.Database.Driver)
	}

	switch c.Email.Provider {
	case "none":
	case "resend":
		if c.Email.Resend.APIKey == "" {
			return fmt.Errorf("email.resend.api_key is required for the resend provider")
		}
	case "ses":
		if c.Email.SES.Region == "" {
			return fmt.Errorf("email.ses.region is required for the ses provider")
		}
	default:
		return fmt.Errorf("invalid email provider: %s (must be resend, ses or none)", c.Email.Provider)
	}

	if c.Email.Provider != "none" && c.Email.From == "" {
		return fmt.Errorf("email.from is required when email is enabled")
	}

	if c.Redis.Enabled && c.Redis.RateLimit.Requests <= 0 {
		return fmt.Errorf("redis.ratelimit.requests must be positive")
	}

	if c.CRM.Enabled {
		if c.CRM.APIToken == "" {
			return fmt.Errorf("crm.api_token is required when crm is enabled")
		}
		if c.CRM.PipelineID == "" {
			return fmt.Errorf("crm.pipeline_id is required when crm is enabled")
		}
	}

	if c.SMS.Enabled && c.SMS.OfficePhone == "" {
		return fmt.Errorf("sms.office_phone is required when sms is enabled")
	}

	return nil
}
