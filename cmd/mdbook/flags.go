package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// Serve defaults.
const (
	defaultPort     = 3000
	defaultHostname = "localhost"
)

// errHelpRequested is returned when -h/--help was handled by the flag set.
var errHelpRequested = errors.New("help requested")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// buildFlags holds flags for build, watch and serve.
type buildFlags struct {
	common      commonFlags
	destDir     string
	renderer    string
	format      string
	stagingDir  string
	timeout     string
	metricsFile string
}

// serveFlags holds flags only serve understands.
type serveFlags struct {
	port     int
	hostname string
}

// commandFlags groups the flags of one command invocation.
type commandFlags struct {
	build buildFlags
	serve serveFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path (default <dir>/book.yaml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addBuildFlags adds flags that select and configure the renderer.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.destDir, "dest-dir", "d", "", "output directory (default <dir>/book)")
	fs.StringVarP(&f.renderer, "renderer", "r", "", "renderer: pandoc, html, print")
	fs.StringVarP(&f.format, "format", "f", "", "pandoc output format, e.g. html, epub, pdf")
	fs.StringVar(&f.stagingDir, "staging-dir", "", "keep staged chapters in this directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "converter timeout (e.g., 30s, 10m)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after each build")
}

// addServeFlags adds preview server flags to a FlagSet.
func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.IntVarP(&f.port, "port", "p", defaultPort, "port to listen on")
	fs.StringVarP(&f.hostname, "hostname", "n", defaultHostname, "hostname to listen on")
}

// parseCommandFlags parses the flags of cmd and returns positional args.
func parseCommandFlags(cmd string, args []string, stderr io.Writer) (*commandFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commandFlags{}

	addCommonFlags(fs, &f.build.common)
	addBuildFlags(fs, &f.build)
	if cmd == "serve" {
		addServeFlags(fs, &f.serve)
	}

	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, errHelpRequested
		}
		return nil, nil, err
	}

	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("%s: expected at most one book directory, got %d", cmd, fs.NArg())
	}
	if f.build.common.quiet && f.build.common.verbose {
		return nil, nil, errors.New("--quiet and --verbose are mutually exclusive")
	}
	if cmd == "serve" && (f.serve.port < 0 || f.serve.port > 65535) {
		return nil, nil, fmt.Errorf("invalid port %d", f.serve.port)
	}
	return f, fs.Args(), nil
}
