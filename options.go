package mdbook

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alnah/go-mdbook/internal/config"
	"github.com/alnah/go-mdbook/internal/metrics"
	"github.com/alnah/go-mdbook/internal/pipeline"
)

// Defaults applied when an option is not given.
const (
	DefaultFormat       = config.DefaultFormat
	DefaultCommand      = config.DefaultPandocCommand
	DefaultPDFEngine    = config.DefaultPDFEngine
	DefaultTimeout      = config.DefaultPandocTimeout
	DefaultPrintTimeout = config.DefaultPrintTimeout
)

// Option configures a Renderer.
type Option func(*settings)

// settings holds the configuration shared by every renderer.
type settings struct {
	logger       *slog.Logger
	recorder     metrics.Recorder
	runner       CommandRunner
	format       string
	command      string
	pdfEngine    string
	timeout      time.Duration
	printTimeout time.Duration
	stagingDir   string
	printer      PDFPrinter
	chapters     pipeline.ChapterRenderer
	smartQuotes  bool
}

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:       slog.Default(),
		recorder:     metrics.NoopRecorder{},
		runner:       ExecRunner{},
		format:       DefaultFormat,
		command:      DefaultCommand,
		pdfEngine:    DefaultPDFEngine,
		timeout:      DefaultTimeout,
		printTimeout: DefaultPrintTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chapters == nil {
		s.chapters = pipeline.NewGoldmark(pipeline.WithSmartPunctuation(s.smartQuotes))
	}
	return s
}

// WithLogger sets the structured logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics registers build metrics on reg.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *settings) {
		if reg != nil {
			s.recorder = metrics.NewPrometheusRecorder(reg)
		}
	}
}

// WithRecorder sets the metrics recorder directly, so several renderers can
// share one set of collectors.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *settings) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithRunner replaces the process runner used to invoke the converter.
func WithRunner(r CommandRunner) Option {
	return func(s *settings) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithFormat sets the converter output format, used as the extension of
// book.<format>. Empty keeps the default ("html").
func WithFormat(format string) Option {
	return func(s *settings) {
		if format != "" {
			s.format = format
		}
	}
}

// WithCommand sets the converter binary. Empty keeps the default ("pandoc").
func WithCommand(command string) Option {
	return func(s *settings) {
		if command != "" {
			s.command = command
		}
	}
}

// WithPDFEngine sets the engine passed as --pdf-engine. Empty keeps the default.
func WithPDFEngine(engine string) Option {
	return func(s *settings) {
		if engine != "" {
			s.pdfEngine = engine
		}
	}
}

// WithTimeout bounds the external conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdbook: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithPrintTimeout bounds PDF printing in the print renderer.
// Panics if d <= 0.
func WithPrintTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdbook: WithPrintTimeout duration must be positive")
	}
	return func(s *settings) {
		s.printTimeout = d
	}
}

// WithStagingDir stages chapters in dir instead of a fresh temporary directory.
// The directory is emptied at the start of each build and kept afterwards.
func WithStagingDir(dir string) Option {
	return func(s *settings) {
		s.stagingDir = dir
	}
}

// WithSmartPunctuation makes the html and print renderers emit typographic
// quotes, dashes and ellipses.
func WithSmartPunctuation(on bool) Option {
	return func(s *settings) {
		s.smartQuotes = on
	}
}

// WithPDFPrinter replaces the headless browser used by the print renderer.
func WithPDFPrinter(p PDFPrinter) Option {
	return func(s *settings) {
		if p != nil {
			s.printer = p
		}
	}
}
