package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service settings, loaded from environment variables with
// an optional .env file for local development.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	DBHost    string `mapstructure:"DB_HOST"`
	DBPort    string `mapstructure:"DB_PORT"`
	DBUser    string `mapstructure:"DB_USER"`
	DBPass    string `mapstructure:"DB_PASSWORD"`
	DBName    string `mapstructure:"DB_NAME"`
	DBSSL     string `mapstructure:"DB_SSLMODE"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	AMQPURL              string `mapstructure:"AMQP_URL"`
	NotificationExchange string `mapstructure:"NOTIFICATION_EXCHANGE"`

	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	MailRateLimitPerMin  int    `mapstructure:"MAIL_RATE_LIMIT_PER_MINUTE"`

	BookingCompleteSchedule string `mapstructure:"BOOKING_COMPLETE_SCHEDULE"`
	SessionSweepSchedule    string `mapstructure:"SESSION_SWEEP_SCHEDULE"`
}

// App is the loaded configuration, populated once in main.
var App Config

// LoadConfig reads configuration from the environment via viper. Missing
// values fall back to development defaults.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "amora")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("NOTIFICATION_EXCHANGE", "amora.notifications")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "amora:rate_limit")
	viper.SetDefault("MAIL_RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("BOOKING_COMPLETE_SCHEDULE", "*/10 * * * *")
	viper.SetDefault("SESSION_SWEEP_SCHEDULE", "* * * * *")

	for _, key := range []string{
		"PORT", "GIN_MODE", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "JWT_SECRET", "ADMIN_EMAIL", "ADMIN_PASSWORD",
		"AMQP_URL", "NOTIFICATION_EXCHANGE", "REDIS_URL",
		"REDIS_RATE_LIMIT_PREFIX", "MAIL_RATE_LIMIT_PER_MINUTE",
		"BOOKING_COMPLETE_SCHEDULE", "SESSION_SWEEP_SCHEDULE",
	} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	App = cfg
	return cfg, nil
}
