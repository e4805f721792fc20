// Package hints provides actionable error hints for common build failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdbook/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConverterNotFound returns hints for a converter binary missing from PATH.
func ForConverterNotFound(command string) string {
	if command == "" {
		command = "pandoc"
	}
	hints := []string{"install " + command + " and make sure it is on PATH"}
	if os.Getenv("MDBOOK_PANDOC") == "" {
		hints = append(hints, "or set MDBOOK_PANDOC to the converter binary")
	}
	return formatHints(hints)
}

// ForPDFEngine returns a hint when the converter fails while producing PDF output,
// which usually means the LaTeX engine is missing.
func ForPDFEngine(engine string) string {
	if engine == "" {
		return ""
	}
	return format("PDF output needs " + engine + "; install it or set output.pandoc.pdfEngine")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the timeout for slow conversions.
func ForTimeout() string {
	return format("for large books, use --timeout or output.pandoc.timeout")
}

// ForConfigNotFound returns hints for a missing config file.
func ForConfigNotFound(root string) string {
	if root == "" {
		return format("use --config /path/to/book.yaml")
	}
	return format("create " + strings.TrimSuffix(root, "/") + "/book.yaml or use --config")
}

// ForUnsafeDestination returns a hint for a build directory that would delete sources.
func ForUnsafeDestination() string {
	return format("set build.buildDir or --dest-dir to a directory outside the book sources")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
