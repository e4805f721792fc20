package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	mdbook "github.com/alnah/go-mdbook"
	"github.com/alnah/go-mdbook/internal/config"
)

// versionProbeTimeout bounds each "<tool> --version" call.
const versionProbeTimeout = 10 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string     `json:"status"`
	Renderer  string     `json:"renderer"`
	Converter toolInfo   `json:"converter"`
	PDFEngine toolInfo   `json:"pdf_engine"`
	Chrome    toolInfo   `json:"chrome"`
	Book      bookInfo   `json:"book"`
	Env       envInfo    `json:"environment"`
	System    systemInfo `json:"system"`
	Warnings  []string   `json:"warnings,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for one external program.
type toolInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// bookInfo holds the result of loading the book at the given root.
type bookInfo struct {
	Root     string `json:"root"`
	Config   string `json:"config"`
	Chapters int    `json:"chapters"`
	Loaded   bool   `json:"loaded"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// lookPath and browserPath are replaced in tests.
var (
	lookPath    = exec.LookPath
	browserPath = launcher.LookPath
)

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	jsonOutput := false
	root := "."
	for _, arg := range args {
		switch {
		case arg == "--json":
			jsonOutput = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(env.Stderr, "doctor: unknown flag %s\n", arg)
			return ExitUsage
		default:
			root = arg
		}
	}

	result := runDoctor(ctx, root)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks for the book at root.
func runDoctor(ctx context.Context, root string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkBook(result, root)
	result.Renderer = cfg.Build.Renderer

	checkConverter(ctx, result, cfg)
	checkChrome(ctx, result, cfg.Build.Renderer == config.RendererPrint)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkBook loads config and SUMMARY.md the way build does.
// It returns the resolved config, or defaults when loading failed.
func checkBook(result *doctorResult, root string) *config.Config {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	result.Book.Root = absRoot
	result.Book.Config = filepath.Join(absRoot, config.FileName)

	cfg, err := config.LoadForRoot(absRoot)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return config.DefaultConfig()
	}
	applyEnvConfig(loadEnvConfig(), cfg)

	book, err := mdbook.LoadWithConfig(absRoot, cfg)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Book: %v", err))
		return cfg
	}
	result.Book.Loaded = true
	for _, item := range book.Items {
		if item.HasContent() {
			result.Book.Chapters++
		}
	}
	if result.Book.Chapters == 0 {
		result.Warnings = append(result.Warnings, "SUMMARY.md lists no chapter with content")
	}
	return cfg
}

// checkConverter detects pandoc and, for PDF output, its engine.
// A missing converter is an error only when the pandoc renderer is selected.
func checkConverter(ctx context.Context, result *doctorResult, cfg *config.Config) {
	required := cfg.Build.Renderer == config.RendererPandoc

	result.Converter = probeTool(ctx, cfg.Output.Pandoc.Command)
	if !result.Converter.Found {
		msg := fmt.Sprintf("Converter %q not found on PATH. Install pandoc or set MDBOOK_PANDOC", cfg.Output.Pandoc.Command)
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	result.PDFEngine = toolInfo{Name: cfg.Output.Pandoc.PDFEngine, Skipped: true}
	if cfg.Output.Pandoc.Format != "pdf" {
		return
	}
	result.PDFEngine = probeTool(ctx, cfg.Output.Pandoc.PDFEngine)
	if !result.PDFEngine.Found && required {
		result.Errors = append(result.Errors,
			fmt.Sprintf("PDF engine %q not found on PATH", cfg.Output.Pandoc.PDFEngine))
	}
}

// probeTool finds name on PATH and reads the first line of "name --version".
func probeTool(ctx context.Context, name string) toolInfo {
	info := toolInfo{Name: name}
	path, err := lookPath(name)
	if err != nil {
		return info
	}
	info.Found = true
	info.Path = path
	info.Version = toolVersion(ctx, path)
	return info
}

func toolVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- path resolved from PATH or env
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}

// checkChrome detects Chrome/Chromium. A missing browser is an error only
// when the print renderer is selected.
func checkChrome(ctx context.Context, result *doctorResult, required bool) {
	result.Chrome.Name = "chrome"
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = browserPath()
		if !found {
			msg := "Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN"
			if required {
				result.Errors = append(result.Errors, msg)
			} else {
				result.Warnings = append(result.Warnings, msg+" (needed by the print renderer)")
			}
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Version = toolVersion(ctx, chromePath)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for staging is writable.
func checkSystem(result *doctorResult) {
	dir, err := os.MkdirTemp("", "mdbook-doctor-")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	_ = os.RemoveAll(dir)
	result.System.TempWritable = true
}

func printTool(w io.Writer, label string, t toolInfo) {
	fmt.Fprintln(w, label)
	switch {
	case t.Skipped:
		fmt.Fprintf(w, "  [SKIP] %s not needed for this output\n", t.Name)
	case t.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", t.Path)
		if t.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", t.Version)
		}
	default:
		fmt.Fprintf(w, "  [MISSING] %s\n", t.Name)
	}
	fmt.Fprintln(w)
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdbook doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Book")
	if r.Book.Loaded {
		fmt.Fprintf(w, "  [OK] %s (%d chapters, renderer %s)\n", r.Book.Root, r.Book.Chapters, r.Renderer)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s could not be loaded\n", r.Book.Root)
	}
	fmt.Fprintln(w)

	printTool(w, "Converter", r.Converter)
	printTool(w, "PDF engine", r.PDFEngine)
	printTool(w, "Chrome/Chromium", r.Chrome)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
