package pipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// transformFile writes files under a temp root and transforms htmlName.
func transformFile(t *testing.T, files map[string]string, htmlName string, in TransformInput) (*Output, string) {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, files)

	in.Root = root
	in.HTMLPath = filepath.Join(root, filepath.FromSlash(htmlName))

	out, err := Transform([]byte(files[htmlName]), in)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	return out, root
}

// bundle returns the content of the named bundle, failing if absent.
func bundle(t *testing.T, out *Output, name string) string {
	t.Helper()

	for _, f := range out.Bundles {
		if f.Name == name {
			return string(f.Content)
		}
	}
	t.Fatalf("bundle %q not produced; got %v", name, bundleNames(out))
	return ""
}

func bundleNames(out *Output) []string {
	names := make([]string, 0, len(out.Bundles))
	for _, f := range out.Bundles {
		names = append(names, f.Name)
	}
	return names
}

// ---------------------------------------------------------------------------
// TestTransform - Script bundling
// ---------------------------------------------------------------------------

func TestTransform_ConcatenatesScriptsInOrder(t *testing.T) {
	t.Parallel()

	out, _ := transformFile(t, map[string]string{
		"index.html": `<html><head></head><body><script src="a.js"></script><script src="b.js"></script></body></html>`,
		"a.js":       "var a=1;",
		"b.js":       "var b=2;",
	}, "index.html", TransformInput{})

	if got := bundle(t, out, "index.js"); got != "var a=1;\nvar b=2;" {
		t.Errorf("index.js = %q, want %q", got, "var a=1;\nvar b=2;")
	}

	html := string(out.HTML)
	if n := strings.Count(html, "<script"); n != 1 {
		t.Errorf("script tag count = %d, want 1\n%s", n, html)
	}
	if !strings.Contains(html, `<body><script src="index.js"></script></body>`) {
		t.Errorf("bundle tag not appended to body:\n%s", html)
	}
	if len(out.Bundles) != 1 {
		t.Errorf("bundles = %v, want only index.js", bundleNames(out))
	}
}

func TestTransform_KeepsExternalAndMissingInPlace(t *testing.T) {
	t.Parallel()

	out, _ := transformFile(t, map[string]string{
		"page.html": `<html><head><script src="https://cdn.example.com/lib.js"></script></head>` +
			`<body><p>x</p><script src="local.js"></script><script src="gone.js"></script><div></div></body></html>`,
		"local.js": "local();",
	}, "page.html", TransformInput{})

	if got := bundle(t, out, "page.js"); got != "local();" {
		t.Errorf("page.js = %q, want %q", got, "local();")
	}

	html := string(out.HTML)
	wants := []string{
		`<head><script src="https://cdn.example.com/lib.js"></script></head>`,
		`<p>x</p><script src="gone.js"></script><div></div><script src="page.js"></script></body>`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "local.js") {
		t.Errorf("bundled tag not removed:\n%s", html)
	}
}

func TestTransform_RootedReference(t *testing.T) {
	t.Parallel()

	out, _ := transformFile(t, map[string]string{
		"docs/guide.html": `<script src="/js/app.js"></script>`,
		"js/app.js":       "app();",
	}, "docs/guide.html", TransformInput{})

	if got := bundle(t, out, "guide.js"); got != "app();" {
		t.Errorf("guide.js = %q, want %q", got, "app();")
	}
}

// ---------------------------------------------------------------------------
// TestTransform - Stylesheet bundling
// ---------------------------------------------------------------------------

func TestTransform_StylesheetsRewriteURLs(t *testing.T) {
	t.Parallel()

	out, _ := transformFile(t, map[string]string{
		"index.html": `<html><head><title>t</title><link rel="stylesheet" href="css/main.css">` +
			`<link rel="stylesheet" href="theme.css"></head><body></body></html>`,
		"css/main.css": `body{background:url(../img/x.png)}`,
		"theme.css":    `h1{background:url(img/h.png)}`,
	}, "index.html", TransformInput{})

	want := "body{background:url(\"img/x.png\")}\nh1{background:url(\"img/h.png\")}"
	if got := bundle(t, out, "index.css"); got != want {
		t.Errorf("index.css =\n%s\nwant\n%s", got, want)
	}

	html := string(out.HTML)
	if !strings.Contains(html, `<head><title>t</title><link rel="stylesheet" href="index.css"/></head>`) {
		t.Errorf("bundle link not appended to head:\n%s", html)
	}
	if strings.Contains(html, "main.css") || strings.Contains(html, "theme.css") {
		t.Errorf("bundled links not removed:\n%s", html)
	}
}

func TestTransform_BothFamilies(t *testing.T) {
	t.Parallel()

	out, _ := transformFile(t, map[string]string{
		"app.html": `<link rel="stylesheet" href="a.css"><script src="a.js"></script><p>hi</p>`,
		"a.css":    "a{}",
		"a.js":     "a();",
	}, "app.html", TransformInput{})

	got := bundleNames(out)
	if strings.Join(got, ",") != "app.js,app.css" {
		t.Errorf("bundles = %v, want [app.js app.css]", got)
	}

	html := string(out.HTML)
	if !strings.Contains(html, `<link rel="stylesheet" href="app.css"/></head>`) {
		t.Errorf("link not in head:\n%s", html)
	}
	if !strings.Contains(html, `<p>hi</p><script src="app.js"></script></body>`) {
		t.Errorf("script not at end of body:\n%s", html)
	}
}

// ---------------------------------------------------------------------------
// TestTransform - Documents without the usual insertion points
// ---------------------------------------------------------------------------

func TestTransform_FramesetScriptsGoToHead(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html": `<html><head><script src="a.js"></script></head><frameset><frame src="f.html"></frameset></html>`,
		"a.js":       "a();",
	}
	out, _ := transformFile(t, files, "index.html", TransformInput{})

	if got := bundle(t, out, "index.js"); got != "a();" {
		t.Errorf("index.js = %q, want %q", got, "a();")
	}
	got := string(out.HTML)
	if !strings.Contains(got, `<head><script src="index.js"></script></head><frameset>`) {
		t.Errorf("bundle tag should be appended to <head>, got:\n%s", got)
	}
	if strings.Contains(got, "<body") {
		t.Errorf("no <body> should be synthesized, got:\n%s", got)
	}
}

func TestTransform_NoscriptContentIsNotBundled(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html": `<html><head><noscript><link rel="stylesheet" href="s.css"></noscript></head><body></body></html>`,
		"s.css":      "a{}",
	}
	out, _ := transformFile(t, files, "index.html", TransformInput{})

	if len(out.Bundles) != 0 {
		t.Errorf("bundles = %v, want none", bundleNames(out))
	}
	if !strings.Contains(string(out.HTML), `href="s.css"`) {
		t.Errorf("noscript content should be kept, got:\n%s", out.HTML)
	}

	// With scripting enabled the parser keeps <noscript> content as text.
	doc, err := parseDocument([]byte(files["index.html"]))
	if err != nil {
		t.Fatal(err)
	}
	ns := findElement(doc, atom.Noscript)
	if ns == nil || ns.FirstChild == nil || ns.FirstChild.Type != html.TextNode {
		t.Fatalf("expected <noscript> with a text child, got %+v", ns)
	}
}

// ---------------------------------------------------------------------------
// TestTransform - Nothing to bundle
// ---------------------------------------------------------------------------

func TestTransform_NoBundlableReferences(t *testing.T) {
	t.Parallel()

	src := `<html><head><script src="http://x.example/a.js"></script></head><body><script src="none.js"></script></body></html>`
	out, _ := transformFile(t, map[string]string{"index.html": src}, "index.html", TransformInput{})

	if len(out.Bundles) != 0 {
		t.Errorf("bundles = %v, want none", bundleNames(out))
	}
	if string(out.HTML) != src {
		t.Errorf("HTML changed:\n%s\nwant\n%s", out.HTML, src)
	}
}

func TestTransform_Idempotent(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html": `<html><head><link rel="stylesheet" href="s.css"></head><body><script src="a.js"></script></body></html>`,
		"a.js":       "a();",
		"s.css":      "a{}",
	}
	first, root := transformFile(t, files, "index.html", TransformInput{})

	// Second pass over the output, where only the bundles exist.
	writeTree(t, root, map[string]string{
		"index.js":  bundle(t, first, "index.js"),
		"index.css": bundle(t, first, "index.css"),
	})
	second, err := Transform(first.HTML, TransformInput{
		Root:     root,
		HTMLPath: filepath.Join(root, "index.html"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if string(second.HTML) != string(first.HTML) {
		t.Errorf("second pass changed HTML:\n%s\nwant\n%s", second.HTML, first.HTML)
	}
	if got := bundle(t, second, "index.js"); got != "a();" {
		t.Errorf("second pass index.js = %q, want %q", got, "a();")
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"index.html":                "index",
		filepath.Join("a", "b.html"): "b",
		"page.v2.html":              "page.v2",
		"noext":                     "noext",
	}
	for in, want := range tests {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
