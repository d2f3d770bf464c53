package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			DataPath:    "/some/path",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
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
			cfg := validConfig()
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
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
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

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.App.DataPath = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandDataPath_Default(t *testing.T) {
	cfg := validConfig()
	cfg.App.DataPath = ""

	require.NoError(t, cfg.expandDataPath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "JobTrail"), cfg.App.DataPath)
}

func TestExpandDataPath_Tilde(t *testing.T) {
	cfg := validConfig()
	cfg.App.DataPath = "~/custom/data"

	require.NoError(t, cfg.expandDataPath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom", "data"), cfg.App.DataPath)
}

func TestExpandDatabasePath_Default(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""

	require.NoError(t, cfg.expandDatabasePath())
	assert.Equal(t, filepath.Join("/some/path", "jobtrail.db"), cfg.Database.Path)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("JOBTRAIL_TEST_KEY", "from-env")

	// Flag beats env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "JOBTRAIL_TEST_KEY", "default"))
	// Env beats default.
	assert.Equal(t, "from-env", getConfigValue("", "JOBTRAIL_TEST_KEY", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "JOBTRAIL_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\n\nFOO_FROM_FILE=bar\nQUOTED_VALUE=\"hello\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("FOO_FROM_FILE", "")
	t.Setenv("QUOTED_VALUE", "")
	os.Unsetenv("FOO_FROM_FILE")
	os.Unsetenv("QUOTED_VALUE")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "bar", os.Getenv("FOO_FROM_FILE"))
	assert.Equal(t, "hello", os.Getenv("QUOTED_VALUE"))
}

func TestLoadEnvFile_EnvWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("WINNER=file\n"), 0o600))

	t.Setenv("WINNER", "env")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("WINNER"))
}

func TestLoadEnvFile_BadFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("not a key value line\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}
