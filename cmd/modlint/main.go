package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/DeusData/modlint/internal/cache"
	"github.com/DeusData/modlint/internal/config"
	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/resolver"
	"github.com/DeusData/modlint/internal/rules"
	"github.com/DeusData/modlint/internal/runtime"
	"github.com/DeusData/modlint/internal/walk"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to .modlint.yml (default: project root)")
		fix         = flag.Bool("fix", false, "apply fixes in place")
		concurrency = flag.Int("concurrency", 0, "worker count (default: number of CPUs)")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("modlint", version)
		return 0
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modlint:", err)
		return 2
	}

	disabled, overrides := cfg.EnabledRules()
	var active []rules.Rule
	for _, r := range rules.Catalog() {
		if !disabled[r.Name()] {
			active = append(active, r)
		}
	}

	roots := flag.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	paths, err := expandRoots(ctx, roots, cfg.Ignore)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modlint:", err)
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "modlint: no lintable files found")
		return 2
	}

	opts := runtime.Options{
		Rules:       active,
		Severities:  overrides,
		Concurrency: cfg.EffectiveConcurrency(),
		BatchFactor: cfg.EffectiveBatchFactor(),
		Fix:         cfg.EffectiveFix() || *fix,
	}
	if *concurrency > 0 {
		opts.Concurrency = *concurrency
	}
	if cfg.EffectiveCrossModules() {
		opts.Resolver = resolver.NewRelative()
	}

	if cfg.Cache.Enabled && opts.Resolver == nil && !opts.Fix {
		store, cacheErr := openCache(cfg.Cache.Path)
		if cacheErr != nil {
			fmt.Fprintln(os.Stderr, "modlint:", cacheErr)
			return 2
		}
		defer store.Close()
		opts.Cache = store
		opts.CacheTag = ruleTag(active, overrides)
	}

	rt, err := runtime.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modlint:", err)
		return 2
	}
	res, err := rt.Run(ctx, paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modlint:", err)
		return 2
	}

	report(res)
	return diag.ExitCode(res.Diagnostics)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDir(".")
}

// expandRoots turns file and directory arguments into a flat absolute path
// list, discovering lintable files under directories.
func expandRoots(ctx context.Context, roots, ignore []string) ([]string, error) {
	var paths []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(root)
			if err != nil {
				return nil, err
			}
			paths = append(paths, abs)
			continue
		}
		files, err := walk.Discover(ctx, root, &walk.Options{IgnorePatterns: ignore})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	return paths, nil
}

// ruleTag fingerprints the active rule configuration for cache keying.
func ruleTag(active []rules.Rule, overrides map[string]diag.Severity) uint64 {
	parts := make([]string, 0, len(active))
	for _, r := range active {
		severity := r.DefaultSeverity()
		if s, ok := overrides[r.Name()]; ok {
			severity = s
		}
		parts = append(parts, r.Name()+":"+severity.String())
	}
	sort.Strings(parts)
	return cache.Fingerprint(parts...)
}

func openCache(path string) (*cache.Cache, error) {
	if path == "" {
		var err error
		path, err = cache.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return cache.Open(path)
}

func report(res *runtime.Result) {
	warnings, errors := 0, 0
	for _, d := range res.Diagnostics {
		fmt.Println(d)
		if d.Severity == diag.SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	if len(res.Diagnostics) > 0 {
		fmt.Printf("found %d warnings and %d errors across %d modules\n", warnings, errors, res.Modules)
	}
}
