package bundleassets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-bundleassets/internal/fileutil"
	"github.com/alnah/go-bundleassets/internal/pipeline"
)

// File permission constants.
const (
	dirPermissions  = 0o755 // rwxr-xr-x: output trees are served as-is
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Bundler rewrites HTML trees so that each document loads one script bundle
// and one stylesheet bundle. A Bundler holds no per-run state and is safe
// for concurrent use.
type Bundler struct {
	cfg bundlerConfig
}

// New creates a Bundler.
// Returns ErrInvalidPattern if a preserve pattern does not compile and
// ErrInvalidWorkers if the worker count exceeds MaxWorkers.
func New(opts ...Option) (*Bundler, error) {
	b := &Bundler{}
	for _, opt := range opts {
		opt(b)
	}

	for _, src := range b.cfg.preserveSources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: preserve pattern %q: %v", ErrInvalidPattern, src, err)
		}
		b.cfg.preserve = append(b.cfg.preserve, re)
	}

	if b.cfg.workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkers, b.cfg.workers, MaxWorkers)
	}
	b.cfg.workers = ResolveWorkers(b.cfg.workers)

	b.cfg.patterns = b.cfg.patterns.withDefaults()

	if b.cfg.logger == nil {
		b.cfg.logger = log.New(io.Discard)
	}

	return b, nil
}

// Workers returns the number of files processed concurrently.
func (b *Bundler) Workers() int {
	return b.cfg.workers
}

// Preserved reports whether rel, a slash-separated path relative to the
// source root, matches any preserve pattern.
func (b *Bundler) Preserved(rel string) bool {
	for _, re := range b.cfg.preserve {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// Run transforms the tree at src into dst.
//
// The directory structure is mirrored first. Then every file is handled by
// its own task, at most Workers() at a time:
//   - HTML files are rewritten and their bundles written next to them
//   - files matching the discard pattern are dropped unless preserved
//   - everything else is copied with its mode and modification time
//
// The first error cancels the remaining tasks and is returned. Outputs of a
// single HTML file are written all together or not at all.
func (b *Bundler) Run(ctx context.Context, src, dst string) (*Report, error) {
	srcRoot, dstRoot, err := resolveRoots(src, dst)
	if err != nil {
		return nil, err
	}

	t, err := walkTree(srcRoot)
	if err != nil {
		return nil, err
	}

	if err := t.materialize(dstRoot); err != nil {
		return nil, err
	}
	for _, rel := range t.skipped {
		b.cfg.logger.Warn("skipped non-regular file", "path", rel)
	}

	rep := &collector{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.workers)

	for _, rel := range t.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.processFile(srcRoot, dstRoot, rel, rep)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := rep.report()
	b.cfg.logger.Info("bundled tree",
		"src", srcRoot,
		"html", report.HTMLFiles,
		"bundles", report.Bundles,
		"copied", report.Copied,
		"discarded", report.Discarded,
	)
	return report, nil
}

// BundleFile rewrites a single HTML file. rel is the file's path relative
// to src; outputs are written at the same relative location under dst,
// whose directories must already exist.
func (b *Bundler) BundleFile(ctx context.Context, src, dst, rel string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	srcRoot, dstRoot, err := resolveRoots(src, dst)
	if err != nil {
		return nil, err
	}

	return b.bundleHTML(srcRoot, dstRoot, filepath.ToSlash(rel))
}

// processFile dispatches one file of the walked tree.
func (b *Bundler) processFile(srcRoot, dstRoot, rel string, rep *collector) error {
	if b.cfg.patterns.HTML.MatchString(rel) {
		outcome, err := b.bundleHTML(srcRoot, dstRoot, rel)
		if err != nil {
			return err
		}
		rep.addOutcome(*outcome)
		return nil
	}

	if b.cfg.patterns.Discard.MatchString(rel) && !b.Preserved(rel) {
		b.cfg.logger.Debug("discarded", "path", rel)
		rep.addDiscarded()
		return nil
	}

	in := filepath.Join(srcRoot, filepath.FromSlash(rel))
	out := filepath.Join(dstRoot, filepath.FromSlash(rel))
	if err := fileutil.CopyPreserve(in, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCopyFile, rel, err)
	}
	b.cfg.logger.Debug("copied", "path", rel)
	rep.addCopied()
	return nil
}

// bundleHTML runs the bundling pipeline on one HTML file and commits its
// outputs.
func (b *Bundler) bundleHTML(srcRoot, dstRoot, rel string) (*Outcome, error) {
	start := time.Now()
	in := filepath.Join(srcRoot, filepath.FromSlash(rel))
	out := filepath.Join(dstRoot, filepath.FromSlash(rel))

	content, err := os.ReadFile(in) // #nosec G304 -- path comes from the walked input tree
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadHTML, rel, err)
	}

	result, err := pipeline.Transform(content, pipeline.TransformInput{
		Root:     srcRoot,
		HTMLPath: in,
		External: b.cfg.patterns.External,
		Exempt:   b.exemptFunc(srcRoot),
	})
	if err != nil {
		return nil, fmt.Errorf("bundling %s: %w", rel, err)
	}

	outDir := filepath.Dir(out)
	pending := make([]fileutil.Pending, 0, len(result.Bundles)+1)
	names := make([]string, 0, len(result.Bundles))
	for _, f := range result.Bundles {
		pending = append(pending, fileutil.Pending{Path: filepath.Join(outDir, f.Name), Data: f.Content})
		names = append(names, f.Name)
	}
	pending = append(pending, fileutil.Pending{Path: out, Data: result.HTML})

	if err := fileutil.WriteAll(pending, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, rel, err)
	}

	outcome := &Outcome{Path: rel, Bundles: names, Duration: time.Since(start)}
	b.cfg.logger.Debug("bundled", "path", rel, "bundles", names, "duration", outcome.Duration.Round(time.Microsecond))
	return outcome, nil
}

// exemptFunc returns the resolver's exemption check for a tree rooted at
// srcRoot, or nil when preserved files may be bundled.
func (b *Bundler) exemptFunc(srcRoot string) func(string) bool {
	if b.cfg.bundlePreserved || len(b.cfg.preserve) == 0 {
		return nil
	}
	return func(path string) bool {
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return false
		}
		return b.Preserved(filepath.ToSlash(rel))
	}
}

// resolveRoots makes both roots absolute and validates them.
func resolveRoots(src, dst string) (string, string, error) {
	srcRoot, err := filepath.Abs(src)
	if err != nil {
		return "", "", err
	}
	dstRoot, err := filepath.Abs(dst)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(srcRoot)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s", ErrSourceNotDir, src)
	}

	if fileutil.IsWithin(dstRoot, srcRoot) {
		return "", "", fmt.Errorf("%w: %s", ErrOutputInsideSource, dst)
	}
	if fileutil.IsWithin(srcRoot, dstRoot) {
		return "", "", fmt.Errorf("%w: %s", ErrSourceInsideOutput, src)
	}

	return srcRoot, dstRoot, nil
}

// tree is the walked listing of a source directory.
// Paths are slash-separated and relative to the root; dirs are parent-first.
type tree struct {
	dirs    []string
	files   []string
	skipped []string // neither a directory nor a regular file (sockets, dangling links, ...)
}

// walkTree lists the directories and files under root.
func walkTree(root string) (*tree, error) {
	t := &tree{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch {
		case d.IsDir():
			t.dirs = append(t.dirs, rel)
		case d.Type().IsRegular() || isRegularTarget(path):
			t.files = append(t.files, rel)
		default:
			t.skipped = append(t.skipped, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWalkTree, err)
	}
	return t, nil
}

// isRegularTarget reports whether path, typically a symlink, leads to a
// regular file.
func isRegularTarget(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// materialize creates dstRoot and every walked directory beneath it.
// It runs before any file task so that each task finds its directory.
func (t *tree) materialize(dstRoot string) error {
	if err := os.MkdirAll(dstRoot, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateDir, err)
	}
	for _, rel := range t.dirs {
		if err := os.MkdirAll(filepath.Join(dstRoot, filepath.FromSlash(rel)), dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrCreateDir, err)
		}
	}
	return nil
}

// collector accumulates results from concurrent file tasks.
type collector struct {
	mu        sync.Mutex
	outcomes  []Outcome
	copied    int
	discarded int
}

func (c *collector) addOutcome(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *collector) addCopied() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied++
}

func (c *collector) addDiscarded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discarded++
}

// report builds the final Report with outcomes sorted by path.
func (c *collector) report() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcomes := append([]Outcome(nil), c.outcomes...)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })

	r := &Report{
		HTMLFiles: len(outcomes),
		Copied:    c.copied,
		Discarded: c.discarded,
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		r.Bundles += len(o.Bundles)
	}
	return r
}
