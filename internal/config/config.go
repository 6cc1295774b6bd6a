package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Course   CourseConfig   `mapstructure:"course"`
	API      APIConfig      `mapstructure:"api"`
	Download DownloadConfig `mapstructure:"download"`
	Source   SourceConfig   `mapstructure:"source"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
}

// CourseConfig identifies the course to archive
type CourseConfig struct {
	ID      int    `mapstructure:"id"`
	PageURL string `mapstructure:"page_url"`
}

// APIConfig contains sat.cool API access configuration
type APIConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Token   string            `mapstructure:"token"`
	Cookies map[string]string `mapstructure:"cookies"` // browser session cookies, HTML page fetch only
}

// DownloadConfig contains download settings
type DownloadConfig struct {
	Quality         string `mapstructure:"quality"`
	OutputDir       string `mapstructure:"output_dir"`
	BufferSizeMB    int    `mapstructure:"buffer_size_mb"`
	RequestInterval string `mapstructure:"request_interval"`
	Progress        bool   `mapstructure:"progress"`
}

// SourceConfig selects where the course tree and the download manifest come from
type SourceConfig struct {
	FetchRemote             bool   `mapstructure:"fetch_remote"`
	FromPage                bool   `mapstructure:"from_page"`
	UseFetchedManifest      bool   `mapstructure:"use_fetched_manifest"`
	UseExistingManifestFile bool   `mapstructure:"use_existing_manifest_file"`
	ManifestFile            string `mapstructure:"manifest_file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("course.page_url", "https://sat.cool/classroom/%d")
	viper.SetDefault("api.base_url", "https://sat.cool/api")
	viper.SetDefault("download.quality", "360p")
	viper.SetDefault("download.output_dir", "./courses")
	viper.SetDefault("download.buffer_size_mb", 8)
	viper.SetDefault("download.request_interval", "1s")
	viper.SetDefault("download.progress", true)
	viper.SetDefault("source.fetch_remote", true)
	viper.SetDefault("source.from_page", false)
	viper.SetDefault("source.use_fetched_manifest", true)
	viper.SetDefault("source.use_existing_manifest_file", false)
	viper.SetDefault("source.manifest_file", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("database.path", "")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate course config
	if c.Course.ID <= 0 {
		return fmt.Errorf("course.id is required")
	}

	// Validate API config
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api.token is required")
	}

	// Validate source flag combinations
	if c.Source.FromPage && c.Course.PageURL == "" {
		return fmt.Errorf("course.page_url is required when source.from_page is set")
	}
	if c.Source.UseFetchedManifest && !c.Source.FetchRemote {
		return fmt.Errorf("source.use_fetched_manifest requires source.fetch_remote")
	}
	if c.Source.UseExistingManifestFile && c.Source.ManifestFile == "" {
		return fmt.Errorf("source.use_existing_manifest_file requires source.manifest_file")
	}

	// Validate download config
	if _, err := time.ParseDuration(c.Download.RequestInterval); err != nil {
		return fmt.Errorf("invalid download.request_interval: %w", err)
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetRequestInterval returns the lesson-metadata request spacing as time.Duration
func (c *DownloadConfig) GetRequestInterval() time.Duration {
	d, _ := time.ParseDuration(c.RequestInterval)
	if d == 0 {
		return time.Second
	}
	return d
}

// GetBufferSize returns the copy buffer size in bytes
func (c *DownloadConfig) GetBufferSize() int {
	if c.BufferSizeMB <= 0 {
		return 8 * 1024 * 1024 // 8MB default
	}
	return c.BufferSizeMB * 1024 * 1024
}
