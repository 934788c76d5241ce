package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// FileEnv names the environment variable pointing at an optional config file
const FileEnv = "TERMHOST_CONFIG"

// Config holds all application configuration.
//
// Values are layered: defaults, then the config file, then the environment.
// Struct fields carry no envconfig defaults so that an unset variable leaves
// the file value in place.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Terminal  TerminalConfig  `yaml:"terminal" toml:"terminal"`
	Command   CommandConfig   `yaml:"command" toml:"command"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`

	// Shells lists extra shells to advertise. File only.
	Shells []types.ShellDescriptor `yaml:"shells" toml:"shells" ignored:"true"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
}

// TerminalConfig holds interactive session configuration.
type TerminalConfig struct {
	Shell            string `envconfig:"TERMHOST_SHELL" yaml:"shell" toml:"shell"`
	Cols             int    `envconfig:"TERMHOST_COLS" yaml:"cols" toml:"cols"`
	Rows             int    `envconfig:"TERMHOST_ROWS" yaml:"rows" toml:"rows"`
	SubscriberBuffer int    `envconfig:"TERMHOST_SUBSCRIBER_BUFFER" yaml:"subscriber_buffer" toml:"subscriber_buffer"`
}

// CommandConfig holds one-shot command configuration.
type CommandConfig struct {
	Timeout Duration `envconfig:"TERMHOST_COMMAND_TIMEOUT" yaml:"timeout" toml:"timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"rps" toml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// Duration is a time.Duration written as "30s" in files and the environment.
// Zero disables the limit it configures.
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Load loads configuration from the file named by TERMHOST_CONFIG, if any,
// and then from environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile loads configuration from path, if not empty, and then from
// environment variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.Merge(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Terminal: TerminalConfig{
			Cols:             80,
			Rows:             24,
			SubscriberBuffer: 1024,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects values no component can run with
func (c *Config) Validate() error {
	if c.Terminal.Cols <= 0 || c.Terminal.Cols > 65535 {
		return fmt.Errorf("invalid terminal cols %d", c.Terminal.Cols)
	}
	if c.Terminal.Rows <= 0 || c.Terminal.Rows > 65535 {
		return fmt.Errorf("invalid terminal rows %d", c.Terminal.Rows)
	}
	if c.Command.Timeout < 0 {
		return fmt.Errorf("invalid command timeout %s", c.Command.Timeout.Std())
	}
	for i, sh := range c.Shells {
		if sh.Path == "" {
			return fmt.Errorf("shell %d (%q) has no path", i, sh.Name)
		}
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
