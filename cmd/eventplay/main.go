// Package main is the entry point for eventplay, which runs event playbooks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/eventsystem/internal/config"
	"github.com/dshills/eventsystem/internal/playbook"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	Watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := playOnce(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !opts.Watch {
			return 1
		}
	}
	if !opts.Watch {
		return 0
	}

	logger, err := newLogger(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	err = playbook.Watch(ctx, opts.ConfigPath, logger, func() {
		if err := playOnce(ctx, opts, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// playOnce loads the playbook, runs it and writes the report to w.
func playOnce(ctx context.Context, opts options, w io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report, err := playbook.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(w).Encode(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d steps failed", n, len(report.Steps))
	}
	return nil
}

// newLogger builds a logger on stderr. An empty level means info.
func newLogger(level string) (*zap.Logger, error) {
	cfg, err := loggerConfig(level)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// loggerConfig picks the development config at debug level and the
// production config otherwise.
func loggerConfig(level string) (zap.Config, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if lvl.Enabled(zapcore.DebugLevel) {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = lvl
	return cfg, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "eventplay.toml", "Path to the playbook")
	flag.StringVar(&opts.ConfigPath, "c", "eventplay.toml", "Path to the playbook (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Re-run the playbook whenever it changes")
	flag.BoolVar(&opts.Watch, "w", false, "Re-run the playbook whenever it changes (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the playbook")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eventplay - run event playbooks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: eventplay [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  eventplay -c play.toml              Run once and print the report\n")
		fmt.Fprintf(os.Stderr, "  eventplay -c play.toml -w           Re-run on every save\n")
		fmt.Fprintf(os.Stderr, "  EVENTPLAY_MODE=async eventplay      Force the async system\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("eventplay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", flag.Args())
		os.Exit(2)
	}

	return opts
}
