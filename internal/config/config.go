package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration options for the work tracker application
type Config struct {
	Database DatabaseConfig `toml:"database"`
	User     UserConfig     `toml:"user"`
	PalPal   PalPalConfig   `toml:"palpal"`
	S3       S3Config       `toml:"s3"`
	Export   ExportConfig   `toml:"export"`
}

// DatabaseConfig holds the local cache database configuration
type DatabaseConfig struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
}

// UserConfig identifies the signed-in user. When UID is empty the tracker
// runs local-only and data is flagged as temporary.
type UserConfig struct {
	UID   string `toml:"uid"`
	Email string `toml:"email"`
}

// PalPalConfig points at the shared PalPal document service. Presence of the
// endpoint selects the shared backend.
type PalPalConfig struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
}

// S3Config holds the dedicated document store settings. Presence of the
// bucket selects the S3 backend when no shared endpoint is configured.
type S3Config struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Prefix          string `toml:"prefix"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// ExportConfig holds export output settings
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".wt")

	return &Config{
		Database: DatabaseConfig{
			Dir:      baseDir,
			Filename: "wt.db",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// DefaultPath returns the default config file location (~/.wt/config.toml).
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".wt", "config.toml")
}

// DatabasePath returns the full path to the cache database file
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// HasSharedService reports whether the shared PalPal service is configured.
func (c *Config) HasSharedService() bool {
	return c.PalPal.Endpoint != ""
}

// HasDedicatedStore reports whether the dedicated S3 store is configured.
func (c *Config) HasDedicatedStore() bool {
	return c.S3.Bucket != ""
}

// LoadFile overlays values from a TOML config file. A missing file is not an
// error; the defaults stand.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &ConfigError{Field: "file", Message: err.Error()}
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "file", Message: "failed to decode " + path + ": " + err.Error()}
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if dir := os.Getenv("WT_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("WT_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if uid := os.Getenv("WT_USER_UID"); uid != "" {
		c.User.UID = uid
	}
	if email := os.Getenv("WT_USER_EMAIL"); email != "" {
		c.User.Email = email
	}
	if endpoint := os.Getenv("WT_PALPAL_ENDPOINT"); endpoint != "" {
		c.PalPal.Endpoint = endpoint
	}
	if token := os.Getenv("WT_PALPAL_TOKEN"); token != "" {
		c.PalPal.Token = token
	}
	if bucket := os.Getenv("WT_S3_BUCKET"); bucket != "" {
		c.S3.Bucket = bucket
	}
	if region := os.Getenv("WT_S3_REGION"); region != "" {
		c.S3.Region = region
	}
	if prefix := os.Getenv("WT_S3_PREFIX"); prefix != "" {
		c.S3.Prefix = prefix
	}
	if key := os.Getenv("WT_S3_ACCESS_KEY_ID"); key != "" {
		c.S3.AccessKeyID = key
	}
	if secret := os.Getenv("WT_S3_SECRET_ACCESS_KEY"); secret != "" {
		c.S3.SecretAccessKey = secret
	}
	if dir := os.Getenv("WT_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.PalPal.Endpoint != "" && c.PalPal.Token == "" {
		return &ConfigError{Field: "palpal.token", Message: "shared service endpoint requires a token"}
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		return &ConfigError{Field: "s3.region", Message: "s3 bucket requires a region"}
	}
	if (c.HasSharedService() || c.HasDedicatedStore()) && c.User.UID == "" {
		return &ConfigError{Field: "user.uid", Message: "a remote store requires a user uid"}
	}
	return nil
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file
// 3. Override with environment variables
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := cfg.LoadFile(DefaultPath()); err != nil {
		return nil, err
	}
	cfg.LoadFromEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
