package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for document handling.
var (
	ErrParseHTML        = errors.New("HTML parsing failed")
	ErrRenderHTML       = errors.New("HTML rendering failed")
	ErrNoInsertionPoint = errors.New("document has no element to append bundle tag to")
)

// parseDocument parses a full HTML document.
// The parser synthesizes <html>, <head> and <body> when the input omits them,
// so fragments come back wrapped in a complete document.
func parseDocument(content []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseHTML, err)
	}
	return doc, nil
}

// renderDocument renders the document back to bytes.
func renderDocument(doc *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderHTML, err)
	}
	return buf.Bytes(), nil
}

// collectElements traverses the DOM in document order and returns every
// element accepted by match.
func collectElements(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// findElement returns the first element with the given atom, or nil.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	found := collectElements(n, func(e *html.Node) bool { return e.DataAtom == a })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// insertionPoint returns the element a replacement tag is appended to:
// the first preferred element, else <head>, else <html>. Frameset
// documents have no <body>, so their scripts land in <head>.
func insertionPoint(doc *html.Node, preferred atom.Atom) *html.Node {
	for _, a := range []atom.Atom{preferred, atom.Head, atom.Html} {
		if n := findElement(doc, a); n != nil {
			return n
		}
	}
	return nil
}

// attr returns the value of the named attribute and whether it was present.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// newElement builds a detached element with attributes in the given order.
func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
