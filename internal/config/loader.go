package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithFile makes the loader read the given YAML file. A missing explicit
// file is an error, unlike the default location.
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, when one exists
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// Step 2: Load from the config file
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	// Step 3: Load from environment variables
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Step 4: Validate the configuration
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	path := l.filePath
	if path == "" {
		path = os.Getenv("TASKBOARD_CONFIG")
	}
	if path != "" {
		return l.config.LoadFromFile(path)
	}

	path = DefaultConfigPath()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return l.config.LoadFromFile(path)
}

// DefaultConfigPath returns ~/.taskboard/config.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".taskboard", "config.yaml")
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	// Load base configuration
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	config.ApplyOverrides(overrides)

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir            *string
	DBFilename       *string
	DBQueryTimeout   *time.Duration
	DBWriteTimeout   *time.Duration
	DBDirPermissions *uint32

	// Storage overrides
	StorageMode *string
	SeedDemo    *bool

	// Validation overrides
	TitleMinLength       *int
	TitleMaxLength       *int
	DescriptionMinLength *int
	MaxImageBytes        *int64

	// Display overrides
	DateFormat *string
	TimeFormat *string
	SortOrder  *string

	// Application overrides
	Timeout   *time.Duration
	Verbose   *bool
	LogLevel  *string
	LogFormat *string
}

// ApplyOverrides copies every non-nil override onto the configuration. It
// does not validate the result.
func (c *Config) ApplyOverrides(overrides *ConfigOverrides) {
	if overrides == nil {
		return
	}

	// Database overrides
	if overrides.DBDir != nil {
		c.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		c.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		c.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		c.Database.WriteTimeout = *overrides.DBWriteTimeout
	}
	if overrides.DBDirPermissions != nil {
		c.Database.DirPermissions = *overrides.DBDirPermissions
	}

	// Storage overrides
	if overrides.StorageMode != nil {
		c.Storage.Mode = *overrides.StorageMode
	}
	if overrides.SeedDemo != nil {
		c.Storage.SeedDemo = *overrides.SeedDemo
	}

	// Validation overrides
	if overrides.TitleMinLength != nil {
		c.Validation.TitleMinLength = *overrides.TitleMinLength
	}
	if overrides.TitleMaxLength != nil {
		c.Validation.TitleMaxLength = *overrides.TitleMaxLength
	}
	if overrides.DescriptionMinLength != nil {
		c.Validation.DescriptionMinLength = *overrides.DescriptionMinLength
	}
	if overrides.MaxImageBytes != nil {
		c.Validation.MaxImageBytes = *overrides.MaxImageBytes
	}

	// Display overrides
	if overrides.DateFormat != nil {
		c.Display.DateFormat = *overrides.DateFormat
	}
	if overrides.TimeFormat != nil {
		c.Display.TimeFormat = *overrides.TimeFormat
	}
	if overrides.SortOrder != nil {
		c.Display.SortOrder = *overrides.SortOrder
	}

	// Application overrides
	if overrides.Timeout != nil {
		c.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		c.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		c.Application.LogLevel = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		c.Application.LogFormat = *overrides.LogFormat
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
