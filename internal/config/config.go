package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	LogLevel string `mapstructure:"log_level"`
	Storage  string `mapstructure:"storage"`

	DatabaseURL   string `mapstructure:"database_url"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`

	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	BanStrikes     int           `mapstructure:"ban_strikes"`
	BanDuration    time.Duration `mapstructure:"ban_duration"`

	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	AIModel         string        `mapstructure:"ai_model"`
	AIMaxTokens     int64         `mapstructure:"ai_max_tokens"`
	AITemperature   float64       `mapstructure:"ai_temperature"`
	AITimeout       time.Duration `mapstructure:"ai_timeout"`

	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`

	// AdminPassword, when set, creates the AdminUsername account at start-up if it is missing.
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

var defaults = map[string]any{
	"http_addr": ":8080",
	"log_level": "info",
	"storage":   StorageMemory,

	"database_url":   "",
	"redis_addr":     "",
	"redis_password": "",
	"redis_db":       0,

	"jwt_secret":        "",
	"access_token_ttl":  15 * time.Minute,
	"refresh_token_ttl": 7 * 24 * time.Hour,

	"rate_limit_rps":   5.0,
	"rate_limit_burst": 10,
	"ban_strikes":      5,
	"ban_duration":     15 * time.Minute,

	"anthropic_api_key": "",
	"ai_model":          "claude-3-7-sonnet-20250219",
	"ai_max_tokens":     3000,
	"ai_temperature":    0.2,
	"ai_timeout":        30 * time.Second,

	"kafka_brokers": []string{},
	"kafka_topic":   "bizmanage.activity",

	"admin_username": "admin",
	"admin_password": "",
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("storage %q requires DATABASE_URL", c.Storage)
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("ai_timeout must be positive, got %s", c.AITimeout)
	}
	return nil
}

// splitList accepts both "a,b" style env values and proper lists.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
