package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// File is a generated output file, named relative to the HTML file's directory.
type File struct {
	Name    string
	Content []byte
}

// Output holds everything produced for one HTML file.
// Nothing has been written to disk yet.
type Output struct {
	HTML    []byte
	Bundles []File
}

// Rewrite applies the resolutions to doc and renders it.
//
// For each non-empty resolution, in order: the resolved tags are removed,
// the assets are concatenated with "\n" into <baseName>.<ext>, and one
// replacement tag referencing that file is appended to the family's parent
// element (<body> for scripts, <head> for stylesheets). Documents lacking
// that element get the tag in <head>, or in <html> as a last resort.
// Empty resolutions leave the document untouched.
func Rewrite(doc *html.Node, resolutions []*Resolution, baseName, htmlDir string) (*Output, error) {
	out := &Output{}

	for _, res := range resolutions {
		if res.Empty() {
			continue
		}
		f := res.Family

		parent := insertionPoint(doc, f.Parent)
		if parent == nil {
			return nil, fmt.Errorf("%w: <%s>", ErrNoInsertionPoint, f.Parent)
		}

		for _, tag := range res.Tags {
			if tag.Parent != nil {
				tag.Parent.RemoveChild(tag)
			}
		}

		name := baseName + "." + f.Ext
		out.Bundles = append(out.Bundles, File{
			Name:    name,
			Content: []byte(f.join(res.Assets, htmlDir)),
		})
		parent.AppendChild(f.newTag(name))
	}

	rendered, err := renderDocument(doc)
	if err != nil {
		return nil, err
	}
	out.HTML = rendered

	return out, nil
}

// TransformInput locates one HTML file within its tree.
type TransformInput struct {
	// Root is the absolute path of the tree root.
	Root string
	// HTMLPath is the absolute path of the HTML file.
	HTMLPath string
	// External matches references left to the browser. Nil uses DefaultExternalPattern.
	External *regexp.Regexp
	// Exempt reports whether a resolved file must stay out of bundles.
	Exempt func(path string) bool
}

// Transform bundles the assets of one HTML document.
// Every family is resolved against the unmodified document before any tag
// is removed, then all changes are applied in one pass.
func Transform(content []byte, in TransformInput) (*Output, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	htmlDir := filepath.Dir(in.HTMLPath)
	r := &Resolver{
		Root:     in.Root,
		Dir:      htmlDir,
		External: in.External,
		Exempt:   in.Exempt,
	}

	families := Families()
	resolutions := make([]*Resolution, 0, len(families))
	for _, f := range families {
		res, err := r.Resolve(doc, f)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	return Rewrite(doc, resolutions, BaseName(in.HTMLPath), htmlDir)
}

// BaseName returns the file name without its directory and last extension.
// "site/index.html" becomes "index".
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
