package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-bundleassets/internal/config"
)

// ErrEnvFile wraps failures reading a dotenv file.
var ErrEnvFile = errors.New("failed to read env file")

const (
	envPrefix      = "BUNDLEASSETS_"
	defaultEnvFile = ".env"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string   // BUNDLEASSETS_CONFIG: config file name or path
	Workers    int      // BUNDLEASSETS_WORKERS: parallel workers
	Preserve   []string // BUNDLEASSETS_PRESERVE: comma-separated regexps
}

// knownEnvVars lists valid BUNDLEASSETS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"BUNDLEASSETS_CONFIG":   true,
	"BUNDLEASSETS_WORKERS":  true,
	"BUNDLEASSETS_PRESERVE": true,
}

// envSource looks variables up in the process environment first, then in
// values read from a dotenv file. Process variables always win.
type envSource struct {
	dotenv map[string]string
}

// lookup returns the value of key and whether it was set.
func (s envSource) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.dotenv[key]
	return v, ok
}

// get returns the value of key, or "" when unset.
func (s envSource) get(key string) string {
	v, _ := s.lookup(key)
	return v
}

// names returns every variable name visible through s, sorted.
func (s envSource) names() []string {
	seen := make(map[string]bool)
	for _, kv := range os.Environ() {
		seen[strings.SplitN(kv, "=", 2)[0]] = true
	}
	for k := range s.dotenv {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// loadEnvSource reads the dotenv file at path. An empty path selects .env in
// dir and tolerates its absence; an explicit path must exist.
func loadEnvSource(path, dir string) (envSource, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, defaultEnvFile)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return envSource{}, nil
		}
		return envSource{}, fmt.Errorf("%w: %s: %w", ErrEnvFile, path, err)
	}

	return envSource{dotenv: values}, nil
}

// loadEnvConfig reads configuration from environment variables.
// Invalid worker counts are ignored, not errors.
func loadEnvConfig(src envSource) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.get("BUNDLEASSETS_CONFIG"),
		Preserve:   splitPatterns(src.get("BUNDLEASSETS_PRESERVE")),
	}

	if workers := src.get("BUNDLEASSETS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// splitPatterns splits a comma-separated list, dropping empty entries.
func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// warnUnknownEnvVars logs warnings for unrecognized BUNDLEASSETS_* variables.
// Helps catch typos like BUNDLEASSETS_WORKER instead of BUNDLEASSETS_WORKERS.
func warnUnknownEnvVars(w io.Writer, src envSource) {
	for _, name := range src.names() {
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables replace values from the config file; CLI flags are applied
// later via mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if len(env.Preserve) > 0 {
		cfg.Preserve = env.Preserve
	}
}
