package main

import (
	"errors"
	"os"

	bundleassets "github.com/alnah/go-bundleassets"
	"github.com/alnah/go-bundleassets/internal/config"
)

// Exit codes for bundleassets CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Tree bundled
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or arguments
	ExitIO      = 3 // File not found, permission denied, read/write failures
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidPattern) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, bundleassets.ErrInvalidPattern) ||
		errors.Is(err, bundleassets.ErrInvalidWorkers) ||
		errors.Is(err, bundleassets.ErrSourceNotDir) ||
		errors.Is(err, bundleassets.ErrOutputInsideSource) ||
		errors.Is(err, bundleassets.ErrSourceInsideOutput) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrEnvFile) ||
		errors.Is(err, bundleassets.ErrReadHTML) ||
		errors.Is(err, bundleassets.ErrReadAsset) ||
		errors.Is(err, bundleassets.ErrWriteOutput) ||
		errors.Is(err, bundleassets.ErrCopyFile) ||
		errors.Is(err, bundleassets.ErrCreateDir) ||
		errors.Is(err, bundleassets.ErrWalkTree) {
		return ExitIO
	}

	return ExitGeneral
}
