// Package config loads book.yaml, the per-book configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-mdbook/internal/fileutil"
)

// FileName is the config file looked up at the book root.
const FileName = "book.yaml"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrEmptyConfigPath = errors.New("config path cannot be empty")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxAuthorLength      = 100
	MaxAuthors           = 50
	MaxDescriptionLength = 1000
	MaxLanguageLength    = 35 // BCP 47 tags are rarely longer
	MaxPathLength        = 4096
	MaxCommandLength     = 4096
	MaxFormatLength      = 20
)

// Renderer names accepted by build.renderer.
const (
	RendererPandoc = "pandoc"
	RendererHTML   = "html"
	RendererPrint  = "print"
)

// Renderers lists the valid build.renderer values.
var Renderers = []string{RendererPandoc, RendererHTML, RendererPrint}

// Defaults.
const (
	DefaultSrc           = "src"
	DefaultBuildDir      = "book"
	DefaultLanguage      = "en"
	DefaultFormat        = "html"
	DefaultPandocCommand = "pandoc"
	DefaultPDFEngine     = "xelatex"
	DefaultPandocTimeout = 10 * time.Minute
	DefaultPrintTimeout  = 2 * time.Minute
	DefaultRendererName  = RendererPandoc
)

// Config holds book.yaml.
type Config struct {
	Book   BookConfig   `yaml:"book"`
	Build  BuildConfig  `yaml:"build"`
	Output OutputConfig `yaml:"output"`
}

// BookConfig describes the book itself.
type BookConfig struct {
	Title       string   `yaml:"title"`
	Authors     []string `yaml:"authors"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Src         string   `yaml:"src"` // relative to the book root
}

// BuildConfig controls where and how the book is built.
type BuildConfig struct {
	BuildDir   string `yaml:"buildDir"`   // relative to the book root
	Renderer   string `yaml:"renderer"`   // "pandoc", "html", "print"
	StagingDir string `yaml:"stagingDir"` // empty = fresh temp dir per build
}

// OutputConfig holds per-renderer settings.
type OutputConfig struct {
	Pandoc PandocConfig `yaml:"pandoc"`
	HTML   HTMLConfig   `yaml:"html"`
	Print  PrintConfig  `yaml:"print"`
}

// PandocConfig configures the external conversion renderer.
type PandocConfig struct {
	Format    string `yaml:"format"`    // output extension understood by the converter
	Command   string `yaml:"command"`   // converter binary
	PDFEngine string `yaml:"pdfEngine"` // layout engine for PDF output
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "5m"
}

// HTMLConfig configures theme and extra assets. Shared by every renderer.
type HTMLConfig struct {
	Theme         string   `yaml:"theme"` // theme directory relative to the book root
	AdditionalCSS []string `yaml:"additionalCss"`
	AdditionalJS  []string `yaml:"additionalJs"`

	SmartPunctuation bool `yaml:"smartPunctuation"` // typographic quotes and dashes
}

// PrintConfig configures the headless browser PDF renderer.
type PrintConfig struct {
	Timeout string `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when no book.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		Book: BookConfig{
			Language: DefaultLanguage,
			Src:      DefaultSrc,
		},
		Build: BuildConfig{
			BuildDir: DefaultBuildDir,
			Renderer: DefaultRendererName,
		},
		Output: OutputConfig{
			Pandoc: PandocConfig{
				Format:    DefaultFormat,
				Command:   DefaultPandocCommand,
				PDFEngine: DefaultPDFEngine,
			},
		},
	}
}

// PandocTimeout returns output.pandoc.timeout, or the default when unset.
func (c *Config) PandocTimeout() time.Duration {
	return parseDurationOr(c.Output.Pandoc.Timeout, DefaultPandocTimeout)
}

// PrintTimeout returns output.print.timeout, or the default when unset.
func (c *Config) PrintTimeout() time.Duration {
	return parseDurationOr(c.Output.Print.Timeout, DefaultPrintTimeout)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for callers that build a
// Config manually or merge overrides into it.
func (c *Config) Validate() error {
	if err := validateFieldLength("book.title", c.Book.Title, MaxTitleLength); err != nil {
		return err
	}
	if len(c.Book.Authors) > MaxAuthors {
		return fmt.Errorf("%w: book.authors (%d entries, max %d)", ErrFieldTooLong, len(c.Book.Authors), MaxAuthors)
	}
	for i, a := range c.Book.Authors {
		if err := validateFieldLength(fmt.Sprintf("book.authors[%d]", i), a, MaxAuthorLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("book.description", c.Book.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.language", c.Book.Language, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.src", c.Book.Src, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("build.buildDir", c.Build.BuildDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("build.stagingDir", c.Build.StagingDir, MaxPathLength); err != nil {
		return err
	}
	if c.Build.Renderer != "" && !slices.Contains(Renderers, strings.ToLower(c.Build.Renderer)) {
		return fmt.Errorf("%w: build.renderer %q (must be one of %s)", ErrInvalidValue, c.Build.Renderer, strings.Join(Renderers, ", "))
	}

	if err := validateFieldLength("output.pandoc.format", c.Output.Pandoc.Format, MaxFormatLength); err != nil {
		return err
	}
	if c.Output.Pandoc.Format != "" {
		if err := fileutil.ValidateExtension(c.Output.Pandoc.Format); err != nil {
			return fmt.Errorf("%w: output.pandoc.format: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("output.pandoc.command", c.Output.Pandoc.Command, MaxCommandLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Pandoc.PDFEngine, " \t\n") {
		return fmt.Errorf("%w: output.pandoc.pdfEngine %q contains whitespace", ErrInvalidValue, c.Output.Pandoc.PDFEngine)
	}
	if err := validateDuration("output.pandoc.timeout", c.Output.Pandoc.Timeout); err != nil {
		return err
	}
	if err := validateDuration("output.print.timeout", c.Output.Print.Timeout); err != nil {
		return err
	}

	if err := validateFieldLength("output.html.theme", c.Output.HTML.Theme, MaxPathLength); err != nil {
		return err
	}
	for i, p := range c.Output.HTML.AdditionalCSS {
		if err := validateFieldLength(fmt.Sprintf("output.html.additionalCss[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}
	for i, p := range c.Output.HTML.AdditionalJS {
		if err := validateFieldLength(fmt.Sprintf("output.html.additionalJs[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration checks an optional positive Go duration string.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// LoadConfig loads and validates the config file at path.
// Unset fields keep their DefaultConfig values.
// Returns ErrConfigNotFound if the file does not exist (no silent fallback).
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := unmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadForRoot loads <root>/book.yaml, or returns DefaultConfig if it doesn't exist.
func LoadForRoot(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if !fileutil.FileExists(path) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
