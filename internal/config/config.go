package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"taskboard/internal/validation"
)

// Storage modes.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds all configuration options for the taskboard application
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"TASKBOARD_DB_DIR"`
	Filename       string        `yaml:"filename" env:"TASKBOARD_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"TASKBOARD_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TASKBOARD_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TASKBOARD_DB_DIR_PERMISSIONS"`
}

// StorageConfig selects where tasks live between runs
type StorageConfig struct {
	Mode     string `yaml:"mode" env:"TASKBOARD_STORAGE"`
	SeedDemo bool   `yaml:"seed_demo" env:"TASKBOARD_SEED_DEMO"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength       int   `yaml:"title_min_length" env:"TASKBOARD_VALIDATION_TITLE_MIN"`
	TitleMaxLength       int   `yaml:"title_max_length" env:"TASKBOARD_VALIDATION_TITLE_MAX"`
	DescriptionMinLength int   `yaml:"description_min_length" env:"TASKBOARD_VALIDATION_DESCRIPTION_MIN"`
	MaxImageBytes        int64 `yaml:"max_image_bytes" env:"TASKBOARD_VALIDATION_MAX_IMAGE_BYTES"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `yaml:"date_format" env:"TASKBOARD_DISPLAY_DATE_FORMAT"`
	TimeFormat string `yaml:"time_format" env:"TASKBOARD_DISPLAY_TIME_FORMAT"`
	SortOrder  string `yaml:"sort_order" env:"TASKBOARD_DISPLAY_SORT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"TASKBOARD_APP_TIMEOUT"`
	Verbose   bool          `yaml:"verbose" env:"TASKBOARD_APP_VERBOSE"`
	LogLevel  string        `yaml:"log_level" env:"TASKBOARD_LOG_LEVEL"`
	LogFormat string        `yaml:"log_format" env:"TASKBOARD_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".taskboard")
	rules := validation.DefaultRules()

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "taskboard.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Storage: StorageConfig{
			Mode:     StorageSQLite,
			SeedDemo: false,
		},
		Validation: ValidationConfig{
			TitleMinLength:       rules.TitleMinLength,
			TitleMaxLength:       rules.TitleMaxLength,
			DescriptionMinLength: rules.DescriptionMinLength,
			MaxImageBytes:        rules.MaxImageBytes,
		},
		Display: DisplayConfig{
			DateFormat: "Jan 2, 2006",
			TimeFormat: "2006-01-02 15:04",
			SortOrder:  "due_date",
		},
		Application: ApplicationConfig{
			Timeout:   30 * time.Second,
			Verbose:   false,
			LogLevel:  "warn",
			LogFormat: "text",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// ValidationRules converts the validation section for the validator.
func (c *Config) ValidationRules() validation.Rules {
	return validation.Rules{
		TitleMinLength:       c.Validation.TitleMinLength,
		TitleMaxLength:       c.Validation.TitleMaxLength,
		DescriptionMinLength: c.Validation.DescriptionMinLength,
		MaxImageBytes:        c.Validation.MaxImageBytes,
	}
}

// LoadFromFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values are reported rather than ignored.
func (c *Config) LoadFromEnvironment() error {
	env := envReader{}

	// Database configuration
	env.str("TASKBOARD_DB_DIR", &c.Database.Dir)
	env.str("TASKBOARD_DB_FILENAME", &c.Database.Filename)
	env.duration("TASKBOARD_DB_QUERY_TIMEOUT", &c.Database.QueryTimeout)
	env.duration("TASKBOARD_DB_WRITE_TIMEOUT", &c.Database.WriteTimeout)
	if perms := os.Getenv("TASKBOARD_DB_DIR_PERMISSIONS"); perms != "" {
		p, err := strconv.ParseUint(perms, 8, 32)
		if err != nil {
			env.fail("TASKBOARD_DB_DIR_PERMISSIONS", err)
		} else {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Storage configuration
	env.str("TASKBOARD_STORAGE", &c.Storage.Mode)
	env.boolean("TASKBOARD_SEED_DEMO", &c.Storage.SeedDemo)

	// Validation configuration
	env.integer("TASKBOARD_VALIDATION_TITLE_MIN", &c.Validation.TitleMinLength)
	env.integer("TASKBOARD_VALIDATION_TITLE_MAX", &c.Validation.TitleMaxLength)
	env.integer("TASKBOARD_VALIDATION_DESCRIPTION_MIN", &c.Validation.DescriptionMinLength)
	if size := os.Getenv("TASKBOARD_VALIDATION_MAX_IMAGE_BYTES"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			env.fail("TASKBOARD_VALIDATION_MAX_IMAGE_BYTES", err)
		} else {
			c.Validation.MaxImageBytes = n
		}
	}

	// Display configuration
	env.str("TASKBOARD_DISPLAY_DATE_FORMAT", &c.Display.DateFormat)
	env.str("TASKBOARD_DISPLAY_TIME_FORMAT", &c.Display.TimeFormat)
	env.str("TASKBOARD_DISPLAY_SORT", &c.Display.SortOrder)

	// Application configuration
	env.duration("TASKBOARD_APP_TIMEOUT", &c.Application.Timeout)
	env.boolean("TASKBOARD_APP_VERBOSE", &c.Application.Verbose)
	env.str("TASKBOARD_LOG_LEVEL", &c.Application.LogLevel)
	env.str("TASKBOARD_LOG_FORMAT", &c.Application.LogFormat)

	return env.err
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Storage.Mode == StorageSQLite {
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate storage configuration
	switch c.Storage.Mode {
	case StorageSQLite, StorageMemory:
	default:
		return &ConfigError{Field: "storage.mode", Message: fmt.Sprintf("unknown storage mode %q, expected sqlite or memory", c.Storage.Mode)}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < 0 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length cannot be negative"}
	}
	if c.Validation.TitleMaxLength > 0 && c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must not be below the minimum"}
	}
	if c.Validation.DescriptionMinLength < 0 {
		return &ConfigError{Field: "validation.description_min_length", Message: "description minimum length cannot be negative"}
	}
	if c.Validation.MaxImageBytes <= 0 {
		return &ConfigError{Field: "validation.max_image_bytes", Message: "image size limit must be positive"}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "application.log_level", Message: "log level must be debug, info, warn or error"}
	}
	switch c.Application.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// envReader applies environment values and keeps the first parse failure.
type envReader struct {
	err error
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = &ConfigError{Field: key, Message: err.Error()}
	}
}

func (r *envReader) str(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (r *envReader) duration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = d
	}
}

func (r *envReader) integer(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) boolean(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = b
	}
}
