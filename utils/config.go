package utils

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env               string `mapstructure:"ENV"`
	ServerPort        int    `mapstructure:"SERVER_PORT"`
	SigningKey        string `mapstructure:"SIGNING_KEY"`
	DBUsername        string `mapstructure:"DB_USERNAME"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBDriver          string `mapstructure:"DB_DRIVER"`
	DBName            string `mapstructure:"DB_NAME"`
	SSLMode           string `mapstructure:"SSLMODE"`
	Papertrail        string `mapstructure:"PAPERTRAIL"`
	PapertrailAppName string `mapstructure:"PAPERTRAIL_APP_NAME"`
	RedisHost         string `mapstructure:"REDIS_HOST"`
	RedisPort         string `mapstructure:"REDIS_PORT"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`

	// Cron expressions for the two sweep jobs
	WalletSweepSpec string `mapstructure:"WALLET_SWEEP_SPEC"`
	RewardSweepSpec string `mapstructure:"REWARD_SWEEP_SPEC"`

	// Batch knobs, one pair per sweep kind
	WalletBatchSize        int `mapstructure:"WALLET_BATCH_SIZE"`
	WalletMaxIntervalHours int `mapstructure:"WALLET_MAX_INTERVAL_HOURS"`
	RewardBatchSize        int `mapstructure:"REWARD_BATCH_SIZE"`
	RewardMaxIntervalHours int `mapstructure:"REWARD_MAX_INTERVAL_HOURS"`
	MaxRetryAttempts       int `mapstructure:"MAX_RETRY_ATTEMPTS"`
}

func LoadConfig(path string) (*Config, error) {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Disable environment variable prefix
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	// Create config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Additional security: Validate critical configurations
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	// Add validation for critical configurations
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.DBUsername == "" || config.DBPassword == "" {
		return fmt.Errorf("database credentials must be provided")
	}

	// Sweep knobs fall back to sane defaults so a bare .env still boots
	if config.WalletSweepSpec == "" {
		config.WalletSweepSpec = "@every 10m"
	}
	if config.RewardSweepSpec == "" {
		config.RewardSweepSpec = "@every 10m"
	}
	if config.WalletBatchSize == 0 {
		config.WalletBatchSize = 100
	}
	if config.RewardBatchSize == 0 {
		config.RewardBatchSize = 100
	}
	if config.WalletMaxIntervalHours == 0 {
		config.WalletMaxIntervalHours = 1
	}
	if config.RewardMaxIntervalHours == 0 {
		config.RewardMaxIntervalHours = 1
	}
	if config.MaxRetryAttempts == 0 {
		config.MaxRetryAttempts = 3
	}

	return nil
}

// Optional: Masking sensitive information for logging
func (c *Config) Redact() Config {
	redacted := *c
	redacted.SigningKey = "****"
	redacted.DBPassword = "****"
	redacted.RedisPassword = "****"
	return redacted
}

func LoadCustomConfig(path string, val interface{}) error {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Allow overriding config via environment variables
	v.SetEnvPrefix("PERKLY") // Prefix for env vars
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	if err := v.Unmarshal(&val); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}
