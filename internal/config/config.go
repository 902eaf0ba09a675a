package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		URL string
	}
	Redis struct {
		URL string
	}
	Auth struct {
		SecretKey         string
		TokenTTL          time.Duration
		AdminEmail        string
		AdminName         string
		AdminPasswordHash string
	}
	CORS struct {
		AllowedOrigins []string
	}
	RateLimit struct {
		LoginPerMinute int
	}
	Log struct {
		Level string
	}
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("database.url", "sqlite://./therapist_matching.db")
	v.SetDefault("redis.url", "")
	v.SetDefault("auth.secret_key", auth.DefaultSecretKey)
	v.SetDefault("auth.token_ttl", auth.DefaultTokenTTL)
	v.SetDefault("auth.admin_email", auth.DefaultAdminEmail)
	v.SetDefault("auth.admin_name", auth.DefaultAdminName)
	v.SetDefault("auth.admin_password_hash", auth.DefaultAdminPasswordHash)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:3001"})
	v.SetDefault("frontend_url", "")
	v.SetDefault("ratelimit.login_per_minute", 10)
	v.SetDefault("log.level", "info")

	// bare names used by existing deployments
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("auth.secret_key", "AUTH_SECRET_KEY", "SECRET_KEY")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config

	config.Server.Port = v.GetString("server.port")
	config.Database.URL = v.GetString("database.url")
	config.Redis.URL = v.GetString("redis.url")
	config.Auth.SecretKey = v.GetString("auth.secret_key")
	config.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	config.Auth.AdminEmail = v.GetString("auth.admin_email")
	config.Auth.AdminName = v.GetString("auth.admin_name")
	config.Auth.AdminPasswordHash = v.GetString("auth.admin_password_hash")
	config.CORS.AllowedOrigins = splitOrigins(v.GetStringSlice("cors.allowed_origins"))
	if frontend := strings.TrimSpace(v.GetString("frontend_url")); frontend != "" {
		config.CORS.AllowedOrigins = append(config.CORS.AllowedOrigins, frontend)
	}
	config.RateLimit.LoginPerMinute = v.GetInt("ratelimit.login_per_minute")
	config.Log.Level = v.GetString("log.level")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

// UsesDefaultSecret reports whether tokens are signed with the checked-in development secret
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.SecretKey == auth.DefaultSecretKey
}

// splitOrigins accepts both a YAML list and a comma separated env value
func splitOrigins(raw []string) []string {
	var origins []string
	for _, entry := range raw {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}
