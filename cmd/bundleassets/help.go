package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bundleassets [flags] <src> <dst>")
	fmt.Fprintln(w, "       bundleassets version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy the tree at src to dst, bundling the local scripts and stylesheets")
	fmt.Fprintln(w, "of every HTML file into <page>.js and <page>.css.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -p, --preserve <re>       Keep matching .js/.css files (repeatable)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto, max 64)")
	fmt.Fprintln(w, "      --bundle-preserved    Bundle preserved files as well as copying them")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file (default: .env if present)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every file")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BUNDLEASSETS_CONFIG       Config file name or path")
	fmt.Fprintln(w, "  BUNDLEASSETS_WORKERS      Parallel workers")
	fmt.Fprintln(w, "  BUNDLEASSETS_PRESERVE     Comma-separated preserve patterns")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Priority: flags > environment > config file > defaults.")
	fmt.Fprintln(w, "Preserve patterns from a higher source replace the lower ones.")
}
