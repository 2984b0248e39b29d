// Package pipeline implements the per-document asset bundling transform.
//
// This package handles the two stages applied to every HTML file:
//   - Asset resolution: find script and stylesheet tags that reference
//     existing local files and load those files in document order
//   - Bundle rewriting: remove the resolved tags, concatenate the loaded
//     files (rewriting relative CSS url() references), append one
//     replacement tag per family and render the document
//
// Tree traversal, file copying and committing outputs to disk are handled
// by the root bundleassets package. This package only reads asset files;
// it never writes.
package pipeline
