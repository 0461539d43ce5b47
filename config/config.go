package config

import (
	"fmt"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Reads .env plus the process environment */

type Config struct {
	Port string `mapstructure:"PORT"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Storage platform credentials and bucket
	StorageURL        string `mapstructure:"STORAGE_URL"`
	StorageServiceKey string `mapstructure:"STORAGE_SERVICE_KEY"`
	StorageBucket     string `mapstructure:"STORAGE_BUCKET"`

	// PublicBaseURL is the externally visible base used to build
	// permanent links handed to the CRM
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// Optional signed-URL cache; empty addr disables it
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Optional webhooks.yaml to seed the registry at boot
	WebhooksSeedFile string `mapstructure:"WEBHOOKS_SEED_FILE"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("STORAGE_BUCKET", "claims")
	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}
