package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbook <command> [flags] [dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the book from its markdown sources")
	fmt.Fprintln(w, "  watch      Rebuild the book whenever a source file changes")
	fmt.Fprintln(w, "  serve      Build, watch and serve the book over HTTP")
	fmt.Fprintln(w, "  doctor     Check converter, browser and book setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdbook help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for build, watch or serve.
func printCommandUsage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: mdbook %s [flags] [dir]\n", cmd)
	fmt.Fprintln(w)
	switch cmd {
	case "watch":
		fmt.Fprintln(w, "Build the book, then rebuild it whenever a file under dir changes.")
	case "serve":
		fmt.Fprintln(w, "Build the book, serve the output directory and rebuild on change.")
	default:
		fmt.Fprintln(w, "Build the book rooted at dir (default: current directory).")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Book root containing book.yaml and src/SUMMARY.md")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build:")
	fmt.Fprintln(w, "  -d, --dest-dir <path>     Output directory (default <dir>/book)")
	fmt.Fprintln(w, "  -r, --renderer <name>     Renderer: pandoc, html, print")
	fmt.Fprintln(w, "  -f, --format <ext>        Pandoc output format (default html)")
	fmt.Fprintln(w, "      --staging-dir <path>  Keep staged chapters in this directory")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Converter timeout (default 10m)")
	fmt.Fprintln(w, "      --metrics-file <path> Write Prometheus metrics after each build")
	if cmd == "serve" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Server:")
		fmt.Fprintf(w, "  -p, --port <n>            Port to listen on (default %d)\n", defaultPort)
		fmt.Fprintf(w, "  -n, --hostname <host>     Hostname to listen on (default %s)\n", defaultHostname)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default <dir>/book.yaml)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDBOOK_CONFIG, MDBOOK_RENDERER, MDBOOK_FORMAT, MDBOOK_PANDOC,")
	fmt.Fprintln(w, "  MDBOOK_PDF_ENGINE, MDBOOK_BUILD_DIR, MDBOOK_STAGING_DIR, MDBOOK_TIMEOUT")
	fmt.Fprintln(w, "  A .env file in dir is loaded first; existing variables win.")
}

// runHelp prints help for the command named in args.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	switch args[0] {
	case "build", "watch", "serve":
		printCommandUsage(env.Stdout, args[0])
		return ExitSuccess
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdbook doctor [--json] [dir]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Load the book at dir and check that the tools its renderer needs are installed.")
		fmt.Fprintln(env.Stdout, "Exits 1 when a required tool or the book itself is missing.")
		return ExitSuccess
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdbook version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the mdbook version.")
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		return ExitUsage
	}
}
