package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Family describes one kind of bundlable reference tag.
type Family struct {
	// Name identifies the family in logs and reports.
	Name string
	// Ext is the extension of the generated bundle file, without the dot.
	Ext string
	// Attr is the attribute naming the referenced asset.
	Attr string
	// Parent is the element the replacement tag is appended to.
	Parent atom.Atom

	match   func(*html.Node) bool
	newTag  func(ref string) *html.Node
	prepare func(a Asset, htmlDir string) string
}

// Script bundles <script src> references into <base>.js.
var Script = &Family{
	Name:   "script",
	Ext:    "js",
	Attr:   "src",
	Parent: atom.Body,
	match:  func(n *html.Node) bool { return n.DataAtom == atom.Script },
	newTag: func(ref string) *html.Node {
		return newElement(atom.Script, html.Attribute{Key: "src", Val: ref})
	},
	prepare: func(a Asset, _ string) string { return a.Content },
}

// Stylesheet bundles <link rel="stylesheet" href> references into <base>.css.
// Relative url() references inside each stylesheet are rewritten to resolve
// from the HTML file's directory.
var Stylesheet = &Family{
	Name:   "stylesheet",
	Ext:    "css",
	Attr:   "href",
	Parent: atom.Head,
	match:  isStylesheetLink,
	newTag: func(ref string) *html.Node {
		return newElement(atom.Link,
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: ref},
		)
	},
	prepare: func(a Asset, htmlDir string) string {
		return RewriteURLs(a.Content, a.Dir(), htmlDir)
	},
}

// Families returns the families in processing order.
func Families() []*Family {
	return []*Family{Script, Stylesheet}
}

// isStylesheetLink matches <link> elements whose rel is exactly "stylesheet".
// "alternate stylesheet" and other rel lists are left alone.
func isStylesheetLink(n *html.Node) bool {
	if n.DataAtom != atom.Link {
		return false
	}
	rel, ok := attr(n, "rel")
	return ok && strings.EqualFold(strings.TrimSpace(rel), "stylesheet")
}

// join prepares every asset and concatenates the results with newlines.
func (f *Family) join(assets []Asset, htmlDir string) string {
	parts := make([]string, len(assets))
	for i, a := range assets {
		parts[i] = f.prepare(a, htmlDir)
	}
	return strings.Join(parts, "\n")
}
