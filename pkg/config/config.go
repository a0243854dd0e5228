package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings document used when no --config flag is given.
const DefaultPath = "config.json"

// Config is the persisted settings document. The first five keys are the
// ones every installation has; the rest are optional and fall back to
// defaults when absent.
type Config struct {
	// Instagram credentials
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`

	// Reporting
	PDFEnabled bool `yaml:"pdf_enabled" json:"pdf_enabled"`

	// Logging
	DebugLevel       string `yaml:"debug_level" json:"debug_level"`
	LogRetentionDays int    `yaml:"log_retention_days" json:"log_retention_days"`
	LogDir           string `yaml:"log_dir" json:"log_dir"`

	// Scrape behaviour
	OutputDir      string `yaml:"output_dir" json:"output_dir"`
	SleepInterval  int    `yaml:"sleep_interval" json:"sleep_interval"`
	PostLimit      int    `yaml:"post_limit" json:"post_limit"`
	Overwrite      bool   `yaml:"overwrite" json:"overwrite"`
	RequestTimeout int    `yaml:"request_timeout" json:"request_timeout"`
	UserAgent      string `yaml:"user_agent" json:"user_agent"`

	// Request budget towards the platform
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestBurst      int `yaml:"request_burst" json:"request_burst"`
	RequestsPerHour   int `yaml:"requests_per_hour" json:"requests_per_hour"`
}

// LoggingConfig is the subset of settings the logger needs.
type LoggingConfig struct {
	Level         string
	Dir           string
	RetentionDays int
}

// validLevels are the accepted debug_level values, compared case-insensitively.
var validLevels = map[string]bool{
	"DEBUG": true, "INFO": true, "WARNING": true, "ERROR": true, "CRITICAL": true,
}

// DefaultConfig returns a Config instance with the defaults written on first run
func DefaultConfig() *Config {
	return &Config{
		Username:          "",
		Password:          "",
		PDFEnabled:        false,
		DebugLevel:        "ERROR",
		LogRetentionDays:  7,
		LogDir:            "logs",
		OutputDir:         "output",
		SleepInterval:     10,
		PostLimit:         0, // 0 means every post
		RequestTimeout:    30,
		RequestsPerMinute: 60,
		RequestBurst:      5,
		RequestsPerHour:   1000,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
}

// Logging projects the logging settings.
func (c *Config) Logging() *LoggingConfig {
	return &LoggingConfig{
		Level:         c.DebugLevel,
		Dir:           c.LogDir,
		RetentionDays: c.LogRetentionDays,
	}
}

// Sleep returns the pause between posts.
func (c *Config) Sleep() time.Duration {
	return time.Duration(c.SleepInterval) * time.Second
}

// Timeout returns the HTTP request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// HasCredentials reports whether a username is stored.
func (c *Config) HasCredentials() bool {
	return c.Username != ""
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if username := os.Getenv("IGLIKES_USERNAME"); username != "" {
		c.Username = username
	}
	if password := os.Getenv("IGLIKES_PASSWORD"); password != "" {
		c.Password = password
	}
	if level := os.Getenv("IGLIKES_DEBUG_LEVEL"); level != "" {
		c.DebugLevel = level
	}
	if outputDir := os.Getenv("IGLIKES_OUTPUT_DIR"); outputDir != "" {
		c.OutputDir = outputDir
	}
	if logDir := os.Getenv("IGLIKES_LOG_DIR"); logDir != "" {
		c.LogDir = logDir
	}
	if pdf := os.Getenv("IGLIKES_PDF_ENABLED"); pdf != "" {
		c.PDFEnabled = strings.ToLower(pdf) == "true"
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"IGLIKES_LOG_RETENTION_DAYS", &c.LogRetentionDays},
		{"IGLIKES_SLEEP_INTERVAL", &c.SleepInterval},
		{"IGLIKES_POST_LIMIT", &c.PostLimit},
		{"IGLIKES_REQUEST_TIMEOUT", &c.RequestTimeout},
		{"IGLIKES_REQUESTS_PER_MINUTE", &c.RequestsPerMinute},
		{"IGLIKES_REQUEST_BURST", &c.RequestBurst},
		{"IGLIKES_REQUESTS_PER_HOUR", &c.RequestsPerHour},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	return nil
}

// LoadFromFile loads configuration from a JSON or YAML document. The
// format is picked from the file extension; anything but .yaml/.yml is
// treated as JSON.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if !validLevels[strings.ToUpper(c.DebugLevel)] {
		errs = append(errs, fmt.Errorf("invalid debug level %q", c.DebugLevel))
	}
	if c.LogRetentionDays < 0 {
		errs = append(errs, errors.New("log retention days cannot be negative"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.SleepInterval < 0 {
		errs = append(errs, errors.New("sleep interval cannot be negative"))
	}
	if c.PostLimit < 0 {
		errs = append(errs, errors.New("post limit cannot be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RequestBurst <= 0 {
		errs = append(errs, errors.New("request burst must be positive"))
	}
	if c.RequestsPerHour <= 0 {
		errs = append(errs, errors.New("requests per hour must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "    ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.DebugLevel = level
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.OutputDir = outputDir
	}
	if pdf, ok := flags["pdf"].(bool); ok {
		c.PDFEnabled = pdf
	}
	if overwrite, ok := flags["overwrite"].(bool); ok {
		c.Overwrite = overwrite
	}
	if limit, ok := flags["limit"].(int); ok && limit >= 0 {
		c.PostLimit = limit
	}
	if sleep, ok := flags["sleep"].(int); ok && sleep >= 0 {
		c.SleepInterval = sleep
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults.
// A missing config file is created with the defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".iglikes.env"))

	if configPath == "" {
		configPath = DefaultPath
	}

	config := DefaultConfig()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	} else if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
