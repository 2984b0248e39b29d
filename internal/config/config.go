package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-bundleassets/internal/fileutil"
	"github.com/alnah/go-bundleassets/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// Limits for configuration values.
const (
	MaxPatternLength = 1024 // Single regular expression
	MaxPatterns      = 256  // Preserve list entries
	MaxWorkers       = 64   // Mirrors bundleassets.MaxWorkers
)

// appDir is the directory name under the user config directory.
const appDir = "go-bundleassets"

// Config holds all configuration for a bundling run.
type Config struct {
	Preserve        []string       `yaml:"preserve"`        // Regexps for .js/.css files to keep
	Workers         int            `yaml:"workers"`         // 0 = auto
	BundlePreserved bool           `yaml:"bundlePreserved"` // Read preserved files into bundles too
	Patterns        PatternsConfig `yaml:"patterns"`
}

// PatternsConfig overrides the file and reference matchers.
// Empty values keep the defaults.
type PatternsConfig struct {
	HTML     string `yaml:"html"`     // default: \.html$
	Discard  string `yaml:"discard"`  // default: \.(js|css)$
	External string `yaml:"external"` // default: ^\w+://
}

// Validate checks limits and compiles every pattern once.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: %d (must be between 0 and %d)", ErrInvalidWorkers, c.Workers, MaxWorkers)
	}

	if len(c.Preserve) > MaxPatterns {
		return fmt.Errorf("%w: preserve has %d entries (max %d)", ErrFieldTooLong, len(c.Preserve), MaxPatterns)
	}
	for i, p := range c.Preserve {
		if err := validatePattern(fmt.Sprintf("preserve[%d]", i), p); err != nil {
			return err
		}
	}

	for _, f := range []struct{ name, value string }{
		{"patterns.html", c.Patterns.HTML},
		{"patterns.discard", c.Patterns.Discard},
		{"patterns.external", c.Patterns.External},
	} {
		if f.value == "" {
			continue
		}
		if err := validatePattern(f.name, f.value); err != nil {
			return err
		}
	}

	return nil
}

// validatePattern checks that a regular expression is bounded and compiles.
func validatePattern(fieldName, pattern string) error {
	if err := validateFieldLength(fieldName, pattern, MaxPatternLength); err != nil {
		return err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPattern, fieldName, err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that preserves nothing and sizes
// workers automatically.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory; .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
