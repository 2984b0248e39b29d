// Package bundleassets rewrites a tree of HTML files so that each page loads
// a single script bundle and a single stylesheet bundle.
//
// # Quick Start
//
// Create a bundler and run it over a source tree:
//
//	b, err := bundleassets.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := b.Run(ctx, "site", "dist")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d pages, %d bundles\n", report.HTMLFiles, report.Bundles)
//
// # What Gets Bundled
//
// For every HTML file, <script src> and <link rel="stylesheet" href> tags
// are considered in document order. A tag is bundled when its reference:
//
//   - has no URL scheme (https://cdn.example.com/x.js stays as-is)
//   - names an existing file, resolved against the tree root when it starts
//     with "/" and against the page's directory otherwise
//   - does not match a preserve pattern
//
// Bundled tags are removed. Their files are concatenated with "\n" into
// <page>.js and <page>.css next to the page, and one tag referencing each
// bundle is appended (the script to <body>, the link to <head>). Relative
// url() references inside stylesheets are rewritten so they keep pointing at
// the same files from the page's directory.
//
// The output directory must not be inside the source tree, and the source
// tree must not be inside the output directory.
//
// Two pages with the same base name in one directory share bundle names;
// the last one written wins.
//
// # Other Files
//
// Files matching the discard pattern (.js and .css by default) are dropped
// from the output unless they match a preserve pattern. All other files are
// copied with their permission bits and modification time.
//
//	b, err := bundleassets.New(
//	    bundleassets.WithPreserve(`^vendor/`, `\.min\.js$`),
//	    bundleassets.WithWorkers(4),
//	)
//
// # Concurrency
//
// Files are processed concurrently, at most Workers() at a time. The first
// error cancels the remaining work and is returned by Run. The outputs of one
// HTML file (the page and its bundles) are written all together or not at all.
package bundleassets
