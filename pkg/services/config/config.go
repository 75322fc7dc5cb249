package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	BaseURL     string `mapstructure:"base_url"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type ArchiveConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Config struct {
	DBPath      string         `mapstructure:"db_path"`
	ReportTitle string         `mapstructure:"report_title"`
	Telegram    TelegramConfig `mapstructure:"telegram"`
	Archive     ArchiveConfig  `mapstructure:"archive"`
}

// Load reads the service configuration file. The Telegram token may come
// from the TELEGRAM_BOT_TOKEN environment variable instead of the file;
// without a token the pipeline cannot deliver anything, so its absence is
// a configuration error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("db_path", "report-relay.db")
	v.SetDefault("report_title", "Document Problem Report")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is missing: set telegram.token or TELEGRAM_BOT_TOKEN")
	}
	return &cfg, nil
}
