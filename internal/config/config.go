// Package config loads application configuration from file, environment
// variables, and defaults via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// Default crawler settings. The user agent mirrors a desktop browser so
// article pages render their full server-side markup.
const (
	DefaultFeedBaseURL = "https://medium.com"
	DefaultCrawlLimit  = 10
	DefaultCrawlDelay  = 2 * time.Second
	DefaultPageTimeout = 15 * time.Second
	DefaultFeedTimeout = 15 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// CrawlerConfig holds crawl pipeline settings.
type CrawlerConfig struct {
	// FeedBaseURL is the upstream content platform base URL.
	FeedBaseURL string `mapstructure:"feed_base_url"`
	// Limit caps the number of feed candidates processed per run.
	Limit int `mapstructure:"limit"`
	// Delay is the politeness pause between successive page fetches.
	Delay time.Duration `mapstructure:"delay"`
	// PageTimeout bounds each article page fetch.
	PageTimeout time.Duration `mapstructure:"page_timeout"`
	// FeedTimeout bounds the feed fetch.
	FeedTimeout time.Duration `mapstructure:"feed_timeout"`
	// UserAgent is sent on outbound page and feed requests.
	UserAgent string `mapstructure:"user_agent"`
	// ScheduleSpec is the cron expression used by the scheduler command.
	ScheduleSpec string `mapstructure:"schedule_spec"`
	// ScheduleTags are the tags re-crawled on each scheduled tick.
	ScheduleTags []string `mapstructure:"schedule_tags"`
}

// Config is the root configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logger   logger.Config  `mapstructure:"logger"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
}

// Init wires Viper: .env file, automatic environment variables, optional
// config file, and defaults. Safe to call once at process start.
func Init(cfgFile string) error {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// The config file is optional: defaults and environment variables are
	// a complete configuration on their own.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// Load unmarshals the assembled Viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers production-safe defaults for every key.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "medium-crawler",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	viper.SetDefault("database", map[string]any{
		"host":     "127.0.0.1",
		"port":     "5432",
		"user":     "crawler",
		"password": "",
		"dbname":   "medium_crawler",
		"sslmode":  "disable",
	})

	viper.SetDefault("crawler", map[string]any{
		"feed_base_url": DefaultFeedBaseURL,
		"limit":         DefaultCrawlLimit,
		"delay":         DefaultCrawlDelay.String(),
		"page_timeout":  DefaultPageTimeout.String(),
		"feed_timeout":  DefaultFeedTimeout.String(),
		"user_agent":    DefaultUserAgent,
		"schedule_spec": "0 */6 * * *",
		"schedule_tags": []string{},
	})
}
