package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-mdbook/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing book.yaml.
type envConfig struct {
	ConfigPath string // MDBOOK_CONFIG: config file path
	Renderer   string // MDBOOK_RENDERER: pandoc, html, print
	Format     string // MDBOOK_FORMAT: pandoc output format
	Pandoc     string // MDBOOK_PANDOC: converter binary
	PDFEngine  string // MDBOOK_PDF_ENGINE: --pdf-engine value
	BuildDir   string // MDBOOK_BUILD_DIR: output directory
	StagingDir string // MDBOOK_STAGING_DIR: kept staging directory
	Timeout    string // MDBOOK_TIMEOUT: converter timeout
}

// knownEnvVars lists valid MDBOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDBOOK_CONFIG":      true,
	"MDBOOK_RENDERER":    true,
	"MDBOOK_FORMAT":      true,
	"MDBOOK_PANDOC":      true,
	"MDBOOK_PDF_ENGINE":  true,
	"MDBOOK_BUILD_DIR":   true,
	"MDBOOK_STAGING_DIR": true,
	"MDBOOK_TIMEOUT":     true,
}

// loadDotEnv loads <root>/.env without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("MDBOOK_CONFIG"),
		Renderer:   os.Getenv("MDBOOK_RENDERER"),
		Format:     os.Getenv("MDBOOK_FORMAT"),
		Pandoc:     os.Getenv("MDBOOK_PANDOC"),
		PDFEngine:  os.Getenv("MDBOOK_PDF_ENGINE"),
		BuildDir:   os.Getenv("MDBOOK_BUILD_DIR"),
		StagingDir: os.Getenv("MDBOOK_STAGING_DIR"),
		Timeout:    os.Getenv("MDBOOK_TIMEOUT"),
	}
}

// warnUnknownEnvVars prints warnings for unrecognized MDBOOK_* variables.
// Helps catch typos like MDBOOK_RENDER instead of MDBOOK_RENDERER.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDBOOK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with set environment variables.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIfNotEmpty(&cfg.Build.Renderer, env.Renderer)
	setIfNotEmpty(&cfg.Build.BuildDir, env.BuildDir)
	setIfNotEmpty(&cfg.Build.StagingDir, env.StagingDir)
	setIfNotEmpty(&cfg.Output.Pandoc.Format, env.Format)
	setIfNotEmpty(&cfg.Output.Pandoc.Command, env.Pandoc)
	setIfNotEmpty(&cfg.Output.Pandoc.PDFEngine, env.PDFEngine)
	setIfNotEmpty(&cfg.Output.Pandoc.Timeout, env.Timeout)
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(f *buildFlags, cfg *config.Config) {
	setIfNotEmpty(&cfg.Build.Renderer, f.renderer)
	setIfNotEmpty(&cfg.Build.BuildDir, f.destDir)
	setIfNotEmpty(&cfg.Build.StagingDir, f.stagingDir)
	setIfNotEmpty(&cfg.Output.Pandoc.Format, f.format)
	setIfNotEmpty(&cfg.Output.Pandoc.Timeout, f.timeout)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
