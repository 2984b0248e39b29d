package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

// bundleFlags holds all flags for a bundling run.
type bundleFlags struct {
	common          commonFlags
	preserve        []string
	workers         int
	bundlePreserved bool
	help            bool

	// Set by parseFlags: which optional flags were given explicitly.
	workersSet         bool
	bundlePreservedSet bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default: .env if present)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every file")
}

// parseFlags parses bundling flags and returns positional args.
// Parse failures are wrapped with ErrUsage; the caller prints usage.
func parseFlags(args []string) (*bundleFlags, []string, error) {
	fs := flag.NewFlagSet("bundleassets", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &bundleFlags{}

	fs.StringArrayVarP(&f.preserve, "preserve", "p", nil, "regexp of .js/.css files to keep (repeatable)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.bundlePreserved, "bundle-preserved", false, "still bundle preserved files")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	f.workersSet = fs.Changed("workers")
	f.bundlePreservedSet = fs.Changed("bundle-preserved")

	return f, fs.Args(), nil
}
