package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"feedkeeper/internal/utils/logger"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".feedkeeper"
	defaultMaxRetries    = 3
	defaultArticleWindow = 100
)

type Config struct {
	Env                  string        `mapstructure:"app_env"`
	ServerAddress        string        `mapstructure:"server_address"`
	LogLevel             string        `mapstructure:"log_level"` // пусто: уровень по окружению
	LogFile              string        `mapstructure:"log_file"`
	ConfigDir            string        `mapstructure:"config_dir"`
	IdentityPath         string        `mapstructure:"identity_path"`
	DataPath             string        `mapstructure:"data_path"`
	SyncInterval         time.Duration `mapstructure:"sync_interval_seconds"`
	NetworkCheckInterval time.Duration `mapstructure:"network_check_interval_seconds"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout_seconds"`
	MaxRetries           int           `mapstructure:"max_retries"`
	ArticleWindow        int           `mapstructure:"article_window"`
	EnableTLS            bool          `mapstructure:"enable_tls"`
	Offline              bool          `mapstructure:"offline"`
}

// Load читает .env и переменные окружения и собирает конфигурацию
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 60)
	viper.SetDefault("NETWORK_CHECK_INTERVAL_SECONDS", 15)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MAX_RETRIES", defaultMaxRetries)
	viper.SetDefault("ARTICLE_WINDOW", defaultArticleWindow)
	viper.SetDefault("ENABLE_TLS", false)
	viper.SetDefault("OFFLINE", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	config := &Config{
		Env:                  viper.GetString("APP_ENV"),
		ServerAddress:        viper.GetString("SERVER_ADDRESS"),
		LogLevel:             viper.GetString("LOG_LEVEL"),
		LogFile:              viper.GetString("LOG_FILE"),
		ConfigDir:            configDir,
		IdentityPath:         filepath.Join(configDir, "identity.json"),
		DataPath:             filepath.Join(configDir, "feedkeeper.db"),
		SyncInterval:         time.Duration(viper.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		NetworkCheckInterval: time.Duration(viper.GetInt("NETWORK_CHECK_INTERVAL_SECONDS")) * time.Second,
		RequestTimeout:       time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		MaxRetries:           viper.GetInt("MAX_RETRIES"),
		ArticleWindow:        viper.GetInt("ARTICLE_WINDOW"),
		EnableTLS:            viper.GetBool("ENABLE_TLS"),
		Offline:              viper.GetBool("OFFLINE"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries должен быть положительным, получено %d", c.MaxRetries)
	}
	if c.ArticleWindow < 1 {
		return fmt.Errorf("article_window должен быть положительным, получено %d", c.ArticleWindow)
	}
	if c.SyncInterval <= 0 || c.NetworkCheckInterval <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("интервалы и таймауты должны быть положительными")
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// BaseURL адрес сервера со схемой
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}
