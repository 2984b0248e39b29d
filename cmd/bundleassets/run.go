package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	bundleassets "github.com/alnah/go-bundleassets"
	"github.com/alnah/go-bundleassets/internal/config"
	"github.com/alnah/go-bundleassets/internal/hints"
)

// requiredArgs is the number of positional arguments: <src> <dst>.
const requiredArgs = 2

// runBundle orchestrates one bundling run.
func runBundle(ctx context.Context, args []string, flags *bundleFlags, env *Environment, logger *log.Logger) error {
	if len(args) != requiredArgs {
		return fmt.Errorf("%w: expected <src> <dst>, got %d argument(s)", ErrUsage, len(args))
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	patterns, err := bundleassets.CompilePatterns(cfg.Patterns.HTML, cfg.Patterns.Discard, cfg.Patterns.External)
	if err != nil {
		return err
	}

	b, err := bundleassets.New(
		bundleassets.WithPreserve(cfg.Preserve...),
		bundleassets.WithWorkers(cfg.Workers),
		bundleassets.WithBundlePreserved(cfg.BundlePreserved),
		bundleassets.WithPatterns(patterns),
		bundleassets.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Debug("starting", "src", args[0], "dst", args[1], "workers", b.Workers(), "preserve", len(cfg.Preserve))

	report, err := b.Run(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	printReport(report, flags.common.quiet, flags.common.verbose, env)
	return nil
}

// resolveConfig builds the effective configuration.
// Priority: CLI flags > env vars > config file > defaults.
func resolveConfig(flags *bundleFlags, env *Environment) (*config.Config, error) {
	dir, err := env.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	src, err := loadEnvSource(flags.common.envFile, dir)
	if err != nil {
		return nil, err
	}
	warnUnknownEnvVars(env.Stderr, src)
	envCfg := loadEnvConfig(src)

	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(configName)))
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags to config (CLI wins).
func mergeFlags(flags *bundleFlags, cfg *config.Config) {
	if len(flags.preserve) > 0 {
		cfg.Preserve = flags.preserve
	}
	if flags.workersSet {
		cfg.Workers = flags.workers
	}
	if flags.bundlePreservedSet {
		cfg.BundlePreserved = flags.bundlePreserved
	}
}

// printReport outputs the run summary using the provided writers.
func printReport(r *bundleassets.Report, quiet, verbose bool, env *Environment) {
	if quiet {
		return
	}

	for _, o := range r.Outcomes {
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %v (%v)\n", o.Path, o.Bundles, o.Duration.Round(time.Millisecond))
		} else if len(o.Bundles) > 0 {
			fmt.Fprintf(env.Stdout, "Bundled %s\n", o.Path)
		}
	}

	fmt.Fprintf(env.Stdout, "%d html, %d bundles, %d copied, %d discarded\n",
		r.HTMLFiles, r.Bundles, r.Copied, r.Discarded)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, bundleassets.ErrOutputInsideSource), errors.Is(err, bundleassets.ErrSourceInsideOutput):
		return hints.ForOutputInsideSource()
	case errors.Is(err, bundleassets.ErrCreateDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, bundleassets.ErrInvalidPattern), errors.Is(err, config.ErrInvalidPattern):
		return hints.ForInvalidPattern()
	case errors.Is(err, bundleassets.ErrReadAsset):
		return hints.ForReadAsset()
	}
	return ""
}
