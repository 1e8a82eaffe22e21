package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Session      SessionConfig
	Redis        RedisConfig
	Broker       BrokerConfig
	Checkout     CheckoutConfig
	Availability AvailabilityConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
	BcryptCost  int
}

// RedisConfig is optional; an empty Addr keeps checkouts in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BrokerConfig is optional; an empty URL disables the booking.confirmed queue.
type BrokerConfig struct {
	URL string
}

type CheckoutConfig struct {
	Flow         string
	TTL          time.Duration
	PaymentDelay time.Duration
}

type AvailabilityConfig struct {
	Cron string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CHECKOUT_FLOW", "full")
	viper.SetDefault("CHECKOUT_TTL", "30m")
	viper.SetDefault("PAYMENT_DELAY", "2s")
	viper.SetDefault("AVAILABILITY_CRON", "@every 15m")

	// .env boleh tidak ada, environment variables tetap dibaca
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
			BcryptCost:  viper.GetInt("BCRYPT_COST"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Broker: BrokerConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		Checkout: CheckoutConfig{
			Flow:         viper.GetString("CHECKOUT_FLOW"),
			TTL:          viper.GetDuration("CHECKOUT_TTL"),
			PaymentDelay: viper.GetDuration("PAYMENT_DELAY"),
		},
		Availability: AvailabilityConfig{
			Cron: viper.GetString("AVAILABILITY_CRON"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Checkout.TTL <= 0 {
		return fmt.Errorf("CHECKOUT_TTL must be positive, got %s", c.Checkout.TTL)
	}
	if c.Checkout.PaymentDelay < 0 {
		return fmt.Errorf("PAYMENT_DELAY must not be negative, got %s", c.Checkout.PaymentDelay)
	}
	return nil
}
