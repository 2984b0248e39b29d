// Package main provides a CLI tool that bundles the scripts and stylesheets
// referenced by the HTML files of a directory tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) == 2 && args[1] == "version" {
		fmt.Fprintf(env.Stdout, "bundleassets %s\n", Version)
		return ExitSuccess
	}

	flags, positional, err := parseFlags(args[1:])
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	logger := newLogger(env, flags.common)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(logger.Debugf))
	defer undo()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runBundle(ctx, positional, flags, env, logger); err != nil {
		logger.Error(err.Error() + hintFor(err))
		if errors.Is(err, ErrUsage) {
			printUsage(env.Stderr)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// newLogger creates the CLI logger writing to stderr.
// Default level shows warnings; --verbose adds per-file debug events and
// --quiet keeps errors only.
func newLogger(env *Environment, f commonFlags) *log.Logger {
	level := log.WarnLevel
	switch {
	case f.verbose:
		level = log.DebugLevel
	case f.quiet:
		level = log.ErrorLevel
	}

	return log.NewWithOptions(env.Stderr, log.Options{
		Prefix: "bundleassets",
		Level:  level,
	})
}
