package bundleassets

import (
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

// Default pattern sources. Patterns are matched against slash-separated
// paths relative to the source tree root, except External which is matched
// against the raw attribute value of a reference tag.
const (
	// DefaultHTMLPattern selects the files that get their assets bundled.
	DefaultHTMLPattern = `\.html$`
	// DefaultDiscardPattern selects the files dropped from the output
	// unless they match a preserve pattern.
	DefaultDiscardPattern = `\.(js|css)$`
	// DefaultExternalPattern selects references left to the browser.
	DefaultExternalPattern = `^\w+://`
)

// Patterns groups the matchers that classify files and references.
// A nil field falls back to its default.
type Patterns struct {
	HTML     *regexp.Regexp
	Discard  *regexp.Regexp
	External *regexp.Regexp
}

// DefaultPatterns returns the default matchers.
func DefaultPatterns() Patterns {
	return Patterns{
		HTML:     regexp.MustCompile(DefaultHTMLPattern),
		Discard:  regexp.MustCompile(DefaultDiscardPattern),
		External: regexp.MustCompile(DefaultExternalPattern),
	}
}

// CompilePatterns compiles pattern sources. Empty sources use the defaults.
// Returns ErrInvalidPattern if any source fails to compile.
func CompilePatterns(html, discard, external string) (Patterns, error) {
	p := DefaultPatterns()

	for _, item := range []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"html", html, &p.HTML},
		{"discard", discard, &p.Discard},
		{"external", external, &p.External},
	} {
		if item.src == "" {
			continue
		}
		re, err := regexp.Compile(item.src)
		if err != nil {
			return Patterns{}, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, item.name, item.src, err)
		}
		*item.dst = re
	}

	return p, nil
}

// withDefaults fills nil matchers.
func (p Patterns) withDefaults() Patterns {
	d := DefaultPatterns()
	if p.HTML == nil {
		p.HTML = d.HTML
	}
	if p.Discard == nil {
		p.Discard = d.Discard
	}
	if p.External == nil {
		p.External = d.External
	}
	return p
}

// Option configures a Bundler.
type Option func(*Bundler)

// bundlerConfig holds internal configuration for Bundler.
type bundlerConfig struct {
	workers         int
	preserveSources []string
	preserve        []*regexp.Regexp
	patterns        Patterns
	bundlePreserved bool
	logger          *log.Logger
}

// WithPreserve adds preserve patterns given as regular expressions.
// Files whose relative path matches any preserve pattern are copied through
// instead of being discarded, and are not read into bundles.
// Invalid expressions make New return ErrInvalidPattern.
func WithPreserve(patterns ...string) Option {
	return func(b *Bundler) {
		b.cfg.preserveSources = append(b.cfg.preserveSources, patterns...)
	}
}

// WithPreserveRegexp adds compiled preserve patterns.
func WithPreserveRegexp(res ...*regexp.Regexp) Option {
	return func(b *Bundler) {
		b.cfg.preserve = append(b.cfg.preserve, res...)
	}
}

// WithWorkers sets how many files are processed concurrently.
// Zero or negative selects a value from GOMAXPROCS.
// Values above MaxWorkers make New return ErrInvalidWorkers.
func WithWorkers(n int) Option {
	return func(b *Bundler) {
		b.cfg.workers = n
	}
}

// WithPatterns overrides the file and reference matchers.
func WithPatterns(p Patterns) Option {
	return func(b *Bundler) {
		b.cfg.patterns = p
	}
}

// WithBundlePreserved controls whether a preserved file referenced by an
// HTML document is still read into that document's bundle.
// When true, the file is bundled and also copied through unchanged.
// Default: false (preserved files are never bundled).
func WithBundlePreserved(enabled bool) Option {
	return func(b *Bundler) {
		b.cfg.bundlePreserved = enabled
	}
}

// WithLogger sets the logger for progress events.
// Files are logged at debug level, tree summaries at info level.
func WithLogger(l *log.Logger) Option {
	return func(b *Bundler) {
		b.cfg.logger = l
	}
}

// Outcome describes the result of bundling one HTML file.
type Outcome struct {
	Path     string   // relative to the source root, slash-separated
	Bundles  []string // generated bundle file names, scripts first
	Duration time.Duration
}

// Report summarizes a tree run.
type Report struct {
	HTMLFiles int
	Bundles   int
	Copied    int
	Discarded int
	Outcomes  []Outcome // sorted by Path
}
