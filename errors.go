package bundleassets

import (
	"errors"

	"github.com/alnah/go-bundleassets/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrSourceNotDir       = errors.New("source is not a directory")
	ErrOutputInsideSource = errors.New("output directory is inside the source tree")
	ErrSourceInsideOutput = errors.New("source tree is inside the output directory")
	ErrReadHTML           = errors.New("failed to read HTML file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrCopyFile           = errors.New("failed to copy file")
	ErrCreateDir          = errors.New("failed to create output directory")
	ErrWalkTree           = errors.New("failed to walk source tree")

	// Option validation errors.
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidWorkers = errors.New("invalid worker count")

	// Per-document errors raised by the bundling pipeline.
	ErrReadAsset  = pipeline.ErrReadAsset
	ErrParseHTML  = pipeline.ErrParseHTML
	ErrRenderHTML = pipeline.ErrRenderHTML
)
