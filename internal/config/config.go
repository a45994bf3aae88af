package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// IngestConfig contains the ingestion pipeline defaults. Callers may
// override any of these per invocation through ingest.Options.
type IngestConfig struct {
	ExpectedCols int    `yaml:"expected_cols" envconfig:"EXPECTED_COLS" default:"106"`
	SampleLimit  int    `yaml:"sample_limit" envconfig:"SAMPLE_LIMIT" default:"200"`
	MergeInto    string `yaml:"merge_into" envconfig:"MERGE_INTO"`
	Delimiter    string `yaml:"delimiter" envconfig:"DELIMITER"`
	Encoding     string `yaml:"encoding" envconfig:"ENCODING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("RECT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Ingest.ExpectedCols == 0 {
		envConfig.Ingest.ExpectedCols = fileConfig.Ingest.ExpectedCols
	}
	if envConfig.Ingest.SampleLimit == 0 {
		envConfig.Ingest.SampleLimit = fileConfig.Ingest.SampleLimit
	}
	if envConfig.Ingest.MergeInto == "" {
		envConfig.Ingest.MergeInto = fileConfig.Ingest.MergeInto
	}
	if envConfig.Ingest.Delimiter == "" {
		envConfig.Ingest.Delimiter = fileConfig.Ingest.Delimiter
	}
	if envConfig.Ingest.Encoding == "" {
		envConfig.Ingest.Encoding = fileConfig.Ingest.Encoding
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Ingest.ExpectedCols <= 0 {
		return fmt.Errorf("expected column count must be positive: %d", c.Ingest.ExpectedCols)
	}

	if c.Ingest.SampleLimit <= 0 {
		return fmt.Errorf("sample limit must be positive: %d", c.Ingest.SampleLimit)
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "console" && c.Logging.Output != "file" && c.Logging.Output != "both" {
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			ExpectedCols: 106,
			SampleLimit:  200,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
	}
}
