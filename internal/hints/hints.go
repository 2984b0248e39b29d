// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains go-bundleassets) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-bundleassets") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputInsideSource returns a hint for an output directory nested in the
// source tree, or containing it.
func ForOutputInsideSource() string {
	return format("choose an output directory outside the source tree, e.g. a sibling dist/")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInvalidPattern returns a hint for preserve and match patterns that fail
// to compile.
func ForInvalidPattern() string {
	return format(`patterns are Go regular expressions matched against slash-separated relative paths, e.g. ^vendor/ or \.min\.js$`)
}

// ForReadAsset returns a hint for referenced files that exist but cannot be read.
func ForReadAsset() string {
	return format("check read permissions on files referenced by <script src> and <link href>")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
