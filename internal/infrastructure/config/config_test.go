package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())

	// Terminal config
	assert.Empty(t, cfg.Terminal.Shell)
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.Equal(t, 24, cfg.Terminal.Rows)
	assert.Equal(t, 1024, cfg.Terminal.SubscriberBuffer)

	// Command config
	assert.Zero(t, cfg.Command.Timeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(FileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                       "9000",
		"HOST":                       "0.0.0.0",
		"TERMHOST_SHELL":             "/bin/zsh",
		"TERMHOST_COLS":              "132",
		"TERMHOST_ROWS":              "50",
		"TERMHOST_SUBSCRIBER_BUFFER": "64",
		"TERMHOST_COMMAND_TIMEOUT":   "45s",
		"LOG_LEVEL":                  "debug",
		"LOG_DEV":                    "true",
		"RATE_LIMIT_RPS":             "500",
		"RATE_LIMIT_BURST":           "1000",
		"RATE_LIMIT_ENABLED":         "false",
		FileEnv:                      "",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
	assert.Equal(t, 132, cfg.Terminal.Cols)
	assert.Equal(t, 50, cfg.Terminal.Rows)
	assert.Equal(t, 64, cfg.Terminal.SubscriberBuffer)

	assert.Equal(t, 45*time.Second, cfg.Command.Timeout.Std())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero cols", key: "TERMHOST_COLS", value: "0"},
		{name: "oversized rows", key: "TERMHOST_ROWS", value: "70000"},
		{name: "malformed timeout", key: "TERMHOST_COMMAND_TIMEOUT", value: "soon"},
		{name: "negative timeout", key: "TERMHOST_COMMAND_TIMEOUT", value: "-1s"},
		{name: "non-numeric rps", key: "RATE_LIMIT_RPS", value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(FileEnv, "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: "9100"
terminal:
  shell: /bin/zsh
  rows: 40
command:
  timeout: 30s
logging:
  level: debug
shells:
  - name: Fish
    path: /usr/bin/fish
    shell_type: other
  - name: Bash 5
    path: /opt/bash5/bin/bash
    shell_type: bash
`)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
	assert.Equal(t, 40, cfg.Terminal.Rows)
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.Equal(t, 30*time.Second, cfg.Command.Timeout.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)

	require.Len(t, cfg.Shells, 2)
	assert.Equal(t, types.ShellDescriptor{Name: "Fish", Path: "/usr/bin/fish", Family: types.FamilyOther}, cfg.Shells[0])
	assert.Equal(t, types.FamilyBash, cfg.Shells[1].Family)
}

func TestLoadTOMLFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[server]
port = "9200"

[rate_limit]
enabled = false
rps = 5
burst = 10

[[shells]]
name = "PowerShell Core"
path = "/usr/local/bin/pwsh"
shell_type = "powershell"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9200", cfg.Server.Port)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.Len(t, cfg.Shells, 1)
	assert.Equal(t, types.FamilyPowerShell, cfg.Shells[0].Family)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  port: \"9100\"\n  host: 0.0.0.0\n")
	t.Setenv(FileEnv, path)
	t.Setenv("PORT", "9300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9300", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad.toml", "server = [unterminated"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "noshellpath.yaml", "shells:\n  - name: Empty\n"))
	assert.Error(t, err)
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{
			name:     "default values",
			wantPort: "8000",
			wantHost: "127.0.0.1",
		},
		{
			name:     "custom port",
			port:     "9000",
			wantPort: "9000",
			wantHost: "127.0.0.1",
		},
		{
			name:     "custom host",
			host:     "localhost",
			wantPort: "8000",
			wantHost: "localhost",
		},
		{
			name:     "custom port and host",
			port:     "3000",
			host:     "0.0.0.0",
			wantPort: "3000",
			wantHost: "0.0.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(FileEnv, "")
			// Clean environment
			t.Setenv("PORT", "")
			t.Setenv("HOST", "")
			os.Unsetenv("PORT")
			os.Unsetenv("HOST")

			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		dev       string
		wantLevel string
		wantDev   bool
	}{
		{
			name:      "default values",
			wantLevel: "info",
		},
		{
			name:      "debug level",
			level:     "debug",
			wantLevel: "debug",
		},
		{
			name:      "development mode",
			dev:       "true",
			wantLevel: "info",
			wantDev:   true,
		},
		{
			name:      "error level production",
			level:     "error",
			dev:       "false",
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(FileEnv, "")
			t.Setenv("LOG_LEVEL", "")
			t.Setenv("LOG_DEV", "")
			os.Unsetenv("LOG_LEVEL")
			os.Unsetenv("LOG_DEV")

			if tt.level != "" {
				t.Setenv("LOG_LEVEL", tt.level)
			}
			if tt.dev != "" {
				t.Setenv("LOG_DEV", tt.dev)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, cfg.Logging.Level)
			assert.Equal(t, tt.wantDev, cfg.Logging.Development)
		})
	}
}
