package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "wt.db", cfg.Database.Filename)
	assert.NotEmpty(t, cfg.Database.Dir)
	assert.False(t, cfg.HasSharedService())
	assert.False(t, cfg.HasDedicatedStore())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFile(t *testing.T) {
	t.Run("should overlay values from a TOML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[user]
uid = "user-1"
email = "user@example.com"

[palpal]
endpoint = "https://palpal.example.com/api"
token = "secret"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg := NewConfig()
		require.NoError(t, cfg.LoadFile(path))

		assert.Equal(t, "user-1", cfg.User.UID)
		assert.True(t, cfg.HasSharedService())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should ignore a missing file", func(t *testing.T) {
		cfg := NewConfig()
		assert.NoError(t, cfg.LoadFile(filepath.Join(t.TempDir(), "absent.toml")))
	})

	t.Run("should reject malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("not [valid"), 0o600))

		cfg := NewConfig()
		assert.Error(t, cfg.LoadFile(path))
	})
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("WT_DB_DIR", "/tmp/wt-test")
	t.Setenv("WT_S3_BUCKET", "tracker-bucket")
	t.Setenv("WT_S3_REGION", "eu-west-1")
	t.Setenv("WT_USER_UID", "user-2")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, "/tmp/wt-test", cfg.Database.Dir)
	assert.True(t, cfg.HasDedicatedStore())
	assert.Equal(t, filepath.Join("/tmp/wt-test", "wt.db"), cfg.DatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "should reject empty database dir",
			mutate:  func(c *Config) { c.Database.Dir = "" },
			wantErr: "database.dir",
		},
		{
			name:    "should reject shared endpoint without token",
			mutate:  func(c *Config) { c.PalPal.Endpoint = "https://example.com"; c.User.UID = "u" },
			wantErr: "palpal.token",
		},
		{
			name:    "should reject s3 bucket without region",
			mutate:  func(c *Config) { c.S3.Bucket = "b"; c.User.UID = "u" },
			wantErr: "s3.region",
		},
		{
			name:    "should reject remote store without user uid",
			mutate:  func(c *Config) { c.S3.Bucket = "b"; c.S3.Region = "eu-west-1" },
			wantErr: "user.uid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
