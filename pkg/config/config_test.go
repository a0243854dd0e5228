package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Username)
	assert.Empty(t, cfg.Password)
	assert.False(t, cfg.PDFEnabled)
	assert.Equal(t, "ERROR", cfg.DebugLevel)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 10, cfg.SleepInterval)
	assert.Equal(t, 0, cfg.PostLimit)
	assert.Equal(t, 10*time.Second, cfg.Sleep())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 60, cfg.RequestsPerMinute)
	assert.Equal(t, 5, cfg.RequestBurst)
	assert.Equal(t, 1000, cfg.RequestsPerHour)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGLIKES_USERNAME", "operator")
	t.Setenv("IGLIKES_PASSWORD", "hunter2")
	t.Setenv("IGLIKES_DEBUG_LEVEL", "DEBUG")
	t.Setenv("IGLIKES_OUTPUT_DIR", "/tmp/likes")
	t.Setenv("IGLIKES_PDF_ENABLED", "TRUE")
	t.Setenv("IGLIKES_SLEEP_INTERVAL", "3")
	t.Setenv("IGLIKES_POST_LIMIT", "25")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "operator", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "DEBUG", cfg.DebugLevel)
	assert.Equal(t, "/tmp/likes", cfg.OutputDir)
	assert.True(t, cfg.PDFEnabled)
	assert.Equal(t, 3, cfg.SleepInterval)
	assert.Equal(t, 25, cfg.PostLimit)
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("IGLIKES_POST_LIMIT", "lots")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IGLIKES_POST_LIMIT")
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("json document keeps defaults for missing keys", func(t *testing.T) {
		path := filepath.Join(tempDir, "config.json")
		content := `{"username": "alice", "password": "pw", "pdf_enabled": true, "debug_level": "INFO", "log_retention_days": 3}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFromFile(path))

		assert.Equal(t, "alice", cfg.Username)
		assert.Equal(t, "pw", cfg.Password)
		assert.True(t, cfg.PDFEnabled)
		assert.Equal(t, "INFO", cfg.DebugLevel)
		assert.Equal(t, 3, cfg.LogRetentionDays)
		assert.Equal(t, "output", cfg.OutputDir)
		assert.Equal(t, 10, cfg.SleepInterval)
	})

	t.Run("yaml document", func(t *testing.T) {
		path := filepath.Join(tempDir, "config.yaml")
		content := "username: bob\ndebug_level: WARNING\nsleep_interval: 2\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFromFile(path))

		assert.Equal(t, "bob", cfg.Username)
		assert.Equal(t, "WARNING", cfg.DebugLevel)
		assert.Equal(t, 2, cfg.SleepInterval)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(tempDir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		err := DefaultConfig().LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("missing file", func(t *testing.T) {
		err := DefaultConfig().LoadFromFile(filepath.Join(tempDir, "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:   "lowercase level accepted",
			modify: func(c *Config) { c.DebugLevel = "critical" },
		},
		{
			name:    "unknown level",
			modify:  func(c *Config) { c.DebugLevel = "VERBOSE" },
			wantErr: "invalid debug level",
		},
		{
			name:    "negative retention",
			modify:  func(c *Config) { c.LogRetentionDays = -1 },
			wantErr: "log retention days cannot be negative",
		},
		{
			name:    "empty output dir",
			modify:  func(c *Config) { c.OutputDir = "" },
			wantErr: "output directory is required",
		},
		{
			name:    "negative post limit",
			modify:  func(c *Config) { c.PostLimit = -5 },
			wantErr: "post limit cannot be negative",
		},
		{
			name:    "zero request rate",
			modify:  func(c *Config) { c.RequestsPerMinute = 0 },
			wantErr: "requests per minute must be positive",
		},
		{
			name:    "zero burst",
			modify:  func(c *Config) { c.RequestBurst = 0 },
			wantErr: "request burst must be positive",
		},
		{
			name:    "negative hourly budget",
			modify:  func(c *Config) { c.RequestsPerHour = -1 },
			wantErr: "requests per hour must be positive",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: "request timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("json round trip", func(t *testing.T) {
		path := filepath.Join(tempDir, "nested", "config.json")
		cfg := DefaultConfig()
		cfg.Username = "carol"
		cfg.PDFEnabled = true

		require.NoError(t, cfg.Save(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		loaded := DefaultConfig()
		require.NoError(t, loaded.LoadFromFile(path))
		assert.Equal(t, cfg, loaded)
	})

	t.Run("yaml output", func(t *testing.T) {
		path := filepath.Join(tempDir, "config.yml")
		require.NoError(t, DefaultConfig().Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, yaml.Unmarshal(data, &raw))
		assert.Equal(t, "ERROR", raw["debug_level"])
		assert.Equal(t, 7, raw["log_retention_days"])
	})
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"log-level": "DEBUG",
		"output":    "elsewhere",
		"pdf":       true,
		"overwrite": true,
		"limit":     5,
		"sleep":     0,
	})

	assert.Equal(t, "DEBUG", cfg.DebugLevel)
	assert.Equal(t, "elsewhere", cfg.OutputDir)
	assert.True(t, cfg.PDFEnabled)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, 5, cfg.PostLimit)
	assert.Equal(t, 0, cfg.SleepInterval)

	// absent keys leave values alone
	cfg = DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{})
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad(t *testing.T) {
	t.Run("missing file writes defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "ERROR", cfg.DebugLevel)

		_, err = os.Stat(path)
		require.NoError(t, err, "defaults should be persisted")

		saved := DefaultConfig()
		require.NoError(t, saved.LoadFromFile(path))
		assert.Equal(t, DefaultConfig(), saved)
	})

	t.Run("precedence flags over env over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"debug_level": "INFO", "output_dir": "from-file", "post_limit": 4}`), 0600))
		t.Setenv("IGLIKES_OUTPUT_DIR", "from-env")
		t.Setenv("IGLIKES_POST_LIMIT", "8")

		cfg, err := Load(path, map[string]interface{}{"limit": 16})
		require.NoError(t, err)

		assert.Equal(t, "INFO", cfg.DebugLevel)
		assert.Equal(t, "from-env", cfg.OutputDir)
		assert.Equal(t, 16, cfg.PostLimit)
	})

	t.Run("invalid document fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"debug_level": "LOUD"}`), 0600))

		_, err := Load(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})
}
