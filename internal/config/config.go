package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Every third-party
// credential (SMS gateway, payment gateway) is injected here at startup and
// never lives in source.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`

	// SMS gateway (basic auth, fixed sender name).
	SMSGatewayURL      string `mapstructure:"SMS_GATEWAY_URL"`
	SMSGatewayUsername string `mapstructure:"SMS_GATEWAY_USERNAME"`
	SMSGatewayPassword string `mapstructure:"SMS_GATEWAY_PASSWORD"`
	SMSSenderName      string `mapstructure:"SMS_SENDER_NAME"`

	// Payment gateway (commit of previously authorized charges).
	PaymentGatewayURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	PaymentMerchantID string `mapstructure:"PAYMENT_MERCHANT_ID"`
	PaymentPassphrase string `mapstructure:"PAYMENT_PASSPHRASE"`

	// Infrastructure.
	RabbitMQURL   string `mapstructure:"RABBITMQ_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// How often the date sweeper looks for accepted events whose date passed.
	UploadSweepInterval time.Duration `mapstructure:"UPLOAD_SWEEP_INTERVAL"`
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("SMS_SENDER_NAME", "Lenslink")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("UPLOAD_SWEEP_INTERVAL", "15m")

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("SMS_GATEWAY_URL")
	viper.BindEnv("SMS_GATEWAY_USERNAME")
	viper.BindEnv("SMS_GATEWAY_PASSWORD")
	viper.BindEnv("SMS_SENDER_NAME")
	viper.BindEnv("PAYMENT_GATEWAY_URL")
	viper.BindEnv("PAYMENT_MERCHANT_ID")
	viper.BindEnv("PAYMENT_PASSPHRASE")
	viper.BindEnv("RABBITMQ_URL")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")
	viper.BindEnv("UPLOAD_SWEEP_INTERVAL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.ClientURL == "" {
		return nil, errors.New("CLIENT_URL is required")
	}
	if cfg.SMSGatewayURL == "" {
		return nil, errors.New("SMS_GATEWAY_URL is required")
	}
	if cfg.SMSGatewayUsername == "" || cfg.SMSGatewayPassword == "" {
		return nil, errors.New("SMS_GATEWAY_USERNAME and SMS_GATEWAY_PASSWORD are required")
	}
	if cfg.PaymentGatewayURL == "" {
		return nil, errors.New("PAYMENT_GATEWAY_URL is required")
	}
	if cfg.PaymentMerchantID == "" || cfg.PaymentPassphrase == "" {
		return nil, errors.New("PAYMENT_MERCHANT_ID and PAYMENT_PASSPHRASE are required")
	}
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL is required")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
