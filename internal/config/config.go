// Package config provides configuration types and defaults for mathpad.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MarcDevWorkspace/mathpad/internal/log"
)

// FmtConfig holds settings for the fmt command.
type FmtConfig struct {
	Diff bool `mapstructure:"diff"` // Show a diff instead of rewriting output
}

// Config holds all configuration options for mathpad.
type Config struct {
	Debug        bool      `mapstructure:"debug"`         // Enable debug logging
	TextCommands []string  `mapstructure:"text_commands"` // Commands whose argument is verbatim text, e.g. \text
	Environments []string  `mapstructure:"environments"`  // Recognized matrix environment names
	IDScheme     string    `mapstructure:"id_scheme"`     // "seq" (default) or "uuid"
	Fmt          FmtConfig `mapstructure:"fmt"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Debug:        false,
		TextCommands: []string{`\text`, `\mathrm`},
		Environments: []string{"matrix", "pmatrix", "bmatrix", "vmatrix", "Vmatrix", "cases"},
		IDScheme:     "seq",
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(c Config) error {
	for i, cmd := range c.TextCommands {
		if !strings.HasPrefix(cmd, `\`) || len(cmd) < 2 {
			return fmt.Errorf("text_commands[%d]: %q must be a backslash command like \\text", i, cmd)
		}
		for _, r := range cmd[1:] {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return fmt.Errorf("text_commands[%d]: %q may contain only letters after the backslash", i, cmd)
			}
		}
	}

	for i, env := range c.Environments {
		if env == "" {
			return fmt.Errorf("environments[%d]: name is required", i)
		}
	}

	switch c.IDScheme {
	case "", "seq", "uuid":
		// Valid
	default:
		return fmt.Errorf("id_scheme must be \"seq\" or \"uuid\", got %q", c.IDScheme)
	}

	return nil
}

// KnownEnvironment reports whether name is in the configured environment list.
func (c Config) KnownEnvironment(name string) bool {
	for _, env := range c.Environments {
		if env == name {
			return true
		}
	}
	return false
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Mathpad Configuration

# Enable debug logging to mathpad-debug.log
debug: false

# Commands whose braced argument is captured verbatim (no math parsing inside)
text_commands:
  - "\\text"
  - "\\mathrm"

# Environment names accepted by \begin{...}...\end{...}
environments:
  - matrix
  - pmatrix
  - bmatrix
  - vmatrix
  - Vmatrix
  - cases

# Node identity scheme: "seq" (default) or "uuid"
id_scheme: seq

# fmt command settings
fmt:
  diff: false   # Show a diff instead of printing the formatted output
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
