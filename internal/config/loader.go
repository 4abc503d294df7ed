package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml (or CONFIG_FILE), .env
// and environment variables. SERVER_PORT overrides server.port; the bare
// PORT variable set by most hosting platforms is honoured as well.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// setDefaults registers every key so AutomaticEnv can bind it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.shutdown_timeout", 30)
	v.SetDefault("server.request_timeout", 30)
	v.SetDefault("server.public_base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("auth.api_keys", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_connections", 10)
	v.SetDefault("database.postgres.max_idle", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ratelimit.requests", 10)
	v.SetDefault("redis.ratelimit.window", "1m")

	v.SetDefault("email.provider", "none")
	v.SetDefault("email.from", "")
	v.SetDefault("email.office_to", "")
	v.SetDefault("email.resend.api_key", "")
	v.SetDefault("email.resend.base_url", "https://api.resend.com")
	v.SetDefault("email.ses.region", "eu-west-2")
	v.SetDefault("email.smtp.enabled", false)
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")

	v.SetDefault("sms.enabled", false)
	v.SetDefault("sms.region", "eu-west-2")
	v.SetDefault("sms.office_phone", "")
	v.SetDefault("sms.sender_id", "")

	v.SetDefault("crm.enabled", false)
	v.SetDefault("crm.base_url", "https://services.leadconnectorhq.com")
	v.SetDefault("crm.api_token", "")
	v.SetDefault("crm.api_version", "2021-07-28")
	v.SetDefault("crm.location_id", "")
	v.SetDefault("crm.pipeline_id", "")
	v.SetDefault("crm.pipeline_stage_id", "")

	v.SetDefault("coverage.core", []string{})
	v.SetDefault("coverage.outer", []string{})

	v.SetDefault("pricing.file", "")
}

func overrideFromEnv(cfg *Config) {
	if os.Getenv("SERVER_PORT") == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Port = port
		}
	}
	if os.Getenv("LOG_LEVEL") != "" && os.Getenv("LOGGING_LEVEL") == "" {
		cfg.Logging.Level = os.Getenv("LOG_LEVEL")
	}
}
