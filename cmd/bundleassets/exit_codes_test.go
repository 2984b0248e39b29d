package main

// Notes:
// - exitCodeFor: we test all sentinel errors from the bundleassets and config
//   packages, plus wrapped errors to verify errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	bundleassets "github.com/alnah/go-bundleassets"
	"github.com/alnah/go-bundleassets/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"env file", ErrEnvFile, ExitIO},
		{"read html", bundleassets.ErrReadHTML, ExitIO},
		{"read asset", bundleassets.ErrReadAsset, ExitIO},
		{"write output", bundleassets.ErrWriteOutput, ExitIO},
		{"copy file", bundleassets.ErrCopyFile, ExitIO},
		{"create dir", bundleassets.ErrCreateDir, ExitIO},
		{"walk tree", bundleassets.ErrWalkTree, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"config invalid pattern", config.ErrInvalidPattern, ExitUsage},
		{"config invalid workers", config.ErrInvalidWorkers, ExitUsage},
		{"invalid pattern", bundleassets.ErrInvalidPattern, ExitUsage},
		{"invalid workers", bundleassets.ErrInvalidWorkers, ExitUsage},
		{"source not dir", bundleassets.ErrSourceNotDir, ExitUsage},
		{"output inside source", bundleassets.ErrOutputInsideSource, ExitUsage},
		{"source inside output", bundleassets.ErrSourceInsideOutput, ExitUsage},
		{"wrapped config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},

		// General errors (exit 1)
		{"parse html", bundleassets.ErrParseHTML, ExitGeneral},
		{"render html", bundleassets.ErrRenderHTML, ExitGeneral},
		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
