package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/multitail/pkg/baseline"
	"github.com/0xmhha/multitail/pkg/config"
	"github.com/0xmhha/multitail/pkg/ledger"
	"github.com/0xmhha/multitail/pkg/logger"
	"github.com/0xmhha/multitail/pkg/monitor"
	"github.com/0xmhha/multitail/pkg/output"
	"github.com/0xmhha/multitail/pkg/resolver"
	"github.com/0xmhha/multitail/pkg/router"
	"github.com/0xmhha/multitail/pkg/tailer"
	"github.com/0xmhha/multitail/pkg/watcher"
)

// runTail wires the pipeline and blocks until a signal arrives or the
// watcher shuts down.
func runTail(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := newLogger(cmd, cfg)

	dirs := cfg.Roots
	if len(args) > 0 {
		dirs = args
	}

	roots, err := resolver.Resolve(dirs, cfg.Recursive)
	if err != nil {
		return fmt.Errorf("resolve roots: %w", err)
	}

	r, err := router.New(router.Config{
		Roots:     roots.Dirs,
		Recursive: roots.Recursive,
		Include:   cfg.Filter.Include,
		Exclude:   cfg.Filter.Exclude,
	})
	if err != nil {
		return err
	}

	sink, err := output.New(output.Config{
		Format: output.Format(cfg.Output.Format),
		Color:  output.ColorMode(cfg.Output.Color),
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// Seed offsets before any event can be tailed.
	l := ledger.New()
	scan := baseline.New(roots.Dirs, log).Scan(l)
	for _, failure := range scan.Failures {
		log.Warn("baseline scan failure", "error", failure)
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval:        cfg.Watch.Debounce,
		CircuitBreakerThreshold: cfg.Watch.CircuitBreakerThreshold,
		EventBuffer:             cfg.Watch.EventBuffer,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize watcher: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Warn("failed to close watcher", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx, roots.Dirs); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	t, err := tailer.New(tailer.Config{
		Ledger:  l,
		Sink:    sink,
		TagMode: output.TagMode(cfg.Output.Tag),
	}, log)
	if err != nil {
		return err
	}

	m, err := monitor.New(monitor.Config{
		StatsInterval: cfg.Watch.StatsInterval,
	}, w, r, t, log)
	if err != nil {
		return err
	}

	log.Info("following",
		"roots", roots.Dirs,
		"recursive", roots.Recursive,
		"files_seeded", scan.FilesSeeded)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return m.Run(gctx)
	})

	// Closing the watcher closes its channels, which is the consumer's
	// normal end of input.
	g.Go(func() error {
		<-gctx.Done()
		return w.Close()
	})

	err = g.Wait()
	monitor.LogStats(log, "multitail stopped", m.Stats())

	return err
}

// loadConfig loads file and environment configuration and applies flags
// set on cmd.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.NewLoader(opts.configPath).Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("recursive") {
		cfg.Recursive = opts.recursive
	}
	if flags.Changed("debounce") {
		cfg.Watch.Debounce = opts.debounce
	}
	if flags.Changed("include") {
		cfg.Filter.Include = opts.include
	}
	if flags.Changed("exclude") {
		cfg.Filter.Exclude = opts.exclude
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("tag") {
		cfg.Output.Tag = opts.tag
	}
	if flags.Changed("color") && opts.color {
		cfg.Output.Color = string(output.ColorAlways)
	}
	if flags.Changed("no-color") && opts.noColor {
		cfg.Output.Color = string(output.ColorNever)
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newLogger builds the diagnostic logger. The default stderr destination
// follows the command's error writer.
func newLogger(cmd *cobra.Command, cfg *config.Config) logger.Logger {
	lc := logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stderr" {
		lc.Writer = cmd.ErrOrStderr()
	}

	return logger.New(lc)
}
