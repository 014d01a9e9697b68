// Package config loads application configuration using Viper
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Defaults
const (
	DefaultAPIURL          = "http://localhost:8000"
	DefaultLogLevel        = "info"
	DefaultLogBackend      = "zerolog"
	DefaultLogTimeFormat   = "2006-01-02 15:04:05"
	DefaultServerPort      = 8080
	DefaultShutdownTimeout = "5s"
	DefaultProducerPort    = 8000
	DefaultSampleRows      = 5
	DefaultMaxPoints       = 10

	envPrefix = "CHARTWISE"
)

// Config holds the application configuration
type Config struct {
	API      APIConfig
	Log      LogConfig
	Server   ServerConfig
	Producer ProducerConfig
}

// APIConfig locates the suggestion producer
type APIConfig struct {
	URL string
}

// LogConfig selects and tunes the logger
type LogConfig struct {
	Level      string
	Backend    string
	JSON       bool
	Color      bool
	TimeFormat string
}

// ServerConfig configures the web view
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// ProducerConfig configures the local producer
type ProducerConfig struct {
	Port       int
	SampleRows int
	MaxPoints  int
}

// Load reads configuration from the environment (CHARTWISE_*) and,
// when path is set, from a config file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.backend", DefaultLogBackend)
	v.SetDefault("log.json", false)
	v.SetDefault("log.color", true)
	v.SetDefault("log.time_format", DefaultLogTimeFormat)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("producer.port", DefaultProducerPort)
	v.SetDefault("producer.sample_rows", DefaultSampleRows)
	v.SetDefault("producer.max_points", DefaultMaxPoints)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	shutdown, err := str2duration.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			URL: strings.TrimRight(v.GetString("api.url"), "/"),
		},
		Log: LogConfig{
			Level:      strings.ToLower(v.GetString("log.level")),
			Backend:    strings.ToLower(v.GetString("log.backend")),
			JSON:       v.GetBool("log.json"),
			Color:      v.GetBool("log.color"),
			TimeFormat: v.GetString("log.time_format"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ShutdownTimeout: shutdown,
		},
		Producer: ProducerConfig{
			Port:       v.GetInt("producer.port"),
			SampleRows: v.GetInt("producer.sample_rows"),
			MaxPoints:  v.GetInt("producer.max_points"),
		},
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("api.url must not be empty")
	}
	if c.Log.Backend != "zerolog" && c.Log.Backend != "logrus" {
		return fmt.Errorf("unknown log.backend %q", c.Log.Backend)
	}
	if c.Producer.SampleRows < 0 || c.Producer.MaxPoints <= 0 {
		return fmt.Errorf("producer.sample_rows and producer.max_points must be positive")
	}
	return nil
}
