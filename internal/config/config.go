package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DocumentsConfig holds document generation configuration
type DocumentsConfig struct {
	CustomTemplateDir  string        `mapstructure:"custom_template_dir"`
	DefaultTemplateDir string        `mapstructure:"default_template_dir"`
	StorageDir         string        `mapstructure:"storage_dir"`
	LibreOfficeBin     string        `mapstructure:"libreoffice_bin"`
	ConversionTimeout  time.Duration `mapstructure:"conversion_timeout"`
}

// CacheConfig holds the outbound attachment cache configuration
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron spec
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)

	viper.SetDefault("database.path", "data/dossiers.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("documents.custom_template_dir", "templates/custom")
	viper.SetDefault("documents.default_template_dir", "templates/default")
	viper.SetDefault("documents.storage_dir", "data/files")
	viper.SetDefault("documents.libreoffice_bin", "soffice")
	viper.SetDefault("documents.conversion_timeout", 60*time.Second)

	viper.SetDefault("cache.ttl", 15*time.Minute)
	viper.SetDefault("cache.max_entries", 256)
	viper.SetDefault("cache.sweep_schedule", "@every 5m")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Documents.DefaultTemplateDir == "" {
		return fmt.Errorf("documents.default_template_dir is required")
	}
	if c.Documents.CustomTemplateDir == "" {
		return fmt.Errorf("documents.custom_template_dir is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}
