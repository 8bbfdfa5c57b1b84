package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path"},
		Sync:    SyncConfig{RateLimit: 5, RateBurst: 10},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validTestConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_SyncLimits(t *testing.T) {
	cfg := validTestConfig()
	cfg.Sync.RateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Sync.RateBurst = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_ImportRequiresOwner(t *testing.T) {
	cfg := validTestConfig()
	cfg.Import.WatchPath = "/drop"

	assert.Error(t, cfg.Validate())

	cfg.Import.Owner = "user-1"
	assert.NoError(t, cfg.Validate())
}

func TestDerivedPaths(t *testing.T) {
	cfg := validTestConfig()

	assert.Equal(t, filepath.Join("/some/path", "inkwell.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/some/path", "search.bleve"), cfg.SearchIndexPath())
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), got)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("INKWELL_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "INKWELL_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "INKWELL_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "INKWELL_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "X", false))
	assert.True(t, getBoolConfigValue("1", "X", false))
	assert.True(t, getBoolConfigValue("YES", "X", false))
	assert.False(t, getBoolConfigValue("no", "X", true))
	assert.True(t, getBoolConfigValue("", "INKWELL_TEST_MISSING", true))
}

func TestGetFloatConfigValue(t *testing.T) {
	assert.Equal(t, 2.5, getFloatConfigValue("2.5", "X", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("", "INKWELL_TEST_MISSING", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("not-a-number", "X", 1))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\n\nINKWELL_TEST_ENVFILE=hello\nINKWELL_TEST_QUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("INKWELL_TEST_ENVFILE")
		os.Unsetenv("INKWELL_TEST_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("INKWELL_TEST_ENVFILE"))
	assert.Equal(t, "world", os.Getenv("INKWELL_TEST_QUOTED"))
}

func TestLoadEnvFile_EnvTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("INKWELL_TEST_PRESET=file\n"), 0o600))

	t.Setenv("INKWELL_TEST_PRESET", "process")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "process", os.Getenv("INKWELL_TEST_PRESET"))
}
