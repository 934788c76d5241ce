// Package config provides 12-factor configuration management for termhost.
//
// Configuration starts from built-in defaults, is overlaid by an optional
// YAML or TOML file, and finally by environment variables. The environment
// always wins.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Terminal: interactive shell, initial geometry, subscriber buffer
//   - Command: one-shot command timeout
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Shells: extra shells to advertise (file only)
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - TERMHOST_SHELL, TERMHOST_COLS, TERMHOST_ROWS, TERMHOST_SUBSCRIBER_BUFFER
//   - TERMHOST_COMMAND_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - TERMHOST_CONFIG (path of the config file)
//
// Example File (config.yaml):
//
//	server:
//	  port: "9000"
//	terminal:
//	  shell: /bin/zsh
//	command:
//	  timeout: 30s
//	shells:
//	  - name: Fish
//	    path: /usr/bin/fish
//	    shell_type: other
package config
