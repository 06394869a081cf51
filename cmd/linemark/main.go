// Command linemark replays a two-author editing scenario through the line
// annotation engine and prints, or draws, what each side ends up seeing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/linemark/internal/app"
)

// Set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const usage = `linemark - two-party line change annotation

Usage: linemark [options] [scenario.lua]

Options:
`

const examples = `
Examples:
  linemark -s push.lua              run a scenario and print both sides
  linemark -c linemark.toml -view   run with a config and draw the result
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, done, err := parseFlags(args, stdout, stderr)
	if done {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "linemark: %v\n", err)
		return 2
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "linemark: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = application.Run(ctx)
	switch {
	case err == nil, errors.Is(err, app.ErrQuit), errors.Is(err, context.Canceled):
		return 0
	default:
		fmt.Fprintf(stderr, "linemark: %v\n", err)
		return 1
	}
}

// parseFlags reports done when -help or -version already produced the
// requested output.
func parseFlags(args []string, stdout, stderr io.Writer) (opts app.Options, done bool, err error) {
	fs := flag.NewFlagSet("linemark", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion bool
	for _, name := range []string{"config", "c"} {
		fs.StringVar(&opts.ConfigPath, name, "", "configuration `file` (.toml, .yaml or .yml)")
	}
	for _, name := range []string{"script", "s"} {
		fs.StringVar(&opts.ScriptPath, name, "", "Lua scenario `file` to run")
	}
	for _, name := range []string{"version", "v"} {
		fs.BoolVar(&showVersion, name, false, "print version information")
	}
	fs.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error; overrides the config")
	fs.BoolVar(&opts.View, "view", false, "draw both sides in the terminal after the scenario")
	fs.BoolVar(&opts.WatchConfig, "watch", false, "reload engine timings when the config file changes")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
		fmt.Fprint(stderr, examples)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, true, nil
		}
		return opts, false, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "linemark %s (commit %s, built %s)\n", version, commit, date)
		return opts, true, nil
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, false, fmt.Errorf("invalid -log-level %q", opts.LogLevel)
	}

	switch {
	case fs.NArg() > 1:
		return opts, false, fmt.Errorf("expected at most one scenario, got %d", fs.NArg())
	case fs.NArg() == 1 && opts.ScriptPath != "":
		return opts, false, fmt.Errorf("scenario given both as -script and %q", fs.Arg(0))
	case fs.NArg() == 1:
		opts.ScriptPath = fs.Arg(0)
	}
	return opts, false, nil
}
