package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-bundleassets/internal/fileutil"
)

// ErrReadAsset is returned when a referenced asset exists but cannot be read.
var ErrReadAsset = errors.New("failed to read asset file")

// DefaultExternalPattern matches references carrying a URL scheme.
var DefaultExternalPattern = regexp.MustCompile(`^\w+://`)

// Asset is one file loaded into a bundle.
type Asset struct {
	Path    string // absolute filesystem path
	Content string
}

// Dir returns the directory containing the asset.
func (a Asset) Dir() string {
	return filepath.Dir(a.Path)
}

// Resolution is the outcome of resolving one family in one document.
// Tags[i] referenced Assets[i]; both are in document order.
type Resolution struct {
	Family *Family
	Tags   []*html.Node
	Assets []Asset
}

// Empty reports whether nothing qualified for bundling.
func (r *Resolution) Empty() bool {
	return r == nil || len(r.Assets) == 0
}

// Resolver locates the assets referenced by one HTML document.
type Resolver struct {
	// Root is the tree root that rooted references ("/x.js") resolve against.
	Root string
	// Dir is the directory containing the HTML file.
	Dir string
	// External matches references left to the browser. Nil uses DefaultExternalPattern.
	External *regexp.Regexp
	// Exempt reports whether a resolved file must stay out of bundles.
	// Nil exempts nothing.
	Exempt func(path string) bool
}

// Resolve selects the family's tags in doc and loads every referenced file
// that is local, exists and is not exempt. Other tags are not reported and
// stay in the document untouched.
// Returns ErrReadAsset if an existing file cannot be read.
func (r *Resolver) Resolve(doc *html.Node, f *Family) (*Resolution, error) {
	res := &Resolution{Family: f}

	for _, tag := range collectElements(doc, f.match) {
		ref, ok := attr(tag, f.Attr)
		if !ok || ref == "" || r.external().MatchString(ref) {
			continue
		}

		path := r.locate(ref)
		if !fileutil.FileExists(path) {
			continue
		}
		if r.Exempt != nil && r.Exempt(path) {
			continue
		}

		data, err := os.ReadFile(path) // #nosec G304 -- path referenced by the document being bundled
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadAsset, path, err)
		}

		res.Tags = append(res.Tags, tag)
		res.Assets = append(res.Assets, Asset{Path: path, Content: string(data)})
	}

	return res, nil
}

// locate maps a reference to a filesystem path.
func (r *Resolver) locate(ref string) string {
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(r.Root, filepath.FromSlash(ref))
	}
	return filepath.Join(r.Dir, filepath.FromSlash(ref))
}

func (r *Resolver) external() *regexp.Regexp {
	if r.External == nil {
		return DefaultExternalPattern
	}
	return r.External
}
