package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	mdbook "github.com/alnah/go-mdbook"
	"github.com/alnah/go-mdbook/internal/config"
	"github.com/alnah/go-mdbook/internal/metrics"
)

// buildJob holds everything needed to (re)build one book.
// Config is reloaded on every build so watch and serve pick up book.yaml edits.
type buildJob struct {
	root     string
	flags    *buildFlags
	env      *Environment
	logger   *slog.Logger
	registry *prometheus.Registry
	recorder metrics.Recorder

	// Last resolved configuration, used for hints and the serve directory.
	cfg *config.Config
}

// newBuildJob resolves the book root from positional args and loads its .env.
func newBuildJob(positional []string, f *buildFlags, env *Environment, logger *slog.Logger) (*buildJob, error) {
	root := "."
	if len(positional) > 0 {
		root = positional[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving book root: %w", err)
	}

	if err := loadDotEnv(absRoot); err != nil {
		return nil, err
	}
	warnUnknownEnvVars(env.Stderr)

	job := &buildJob{
		root:   absRoot,
		flags:  f,
		env:    env,
		logger: logger,
	}
	if f.metricsFile != "" {
		job.registry = prometheus.NewRegistry()
		job.recorder = metrics.NewPrometheusRecorder(job.registry)
	}
	return job, nil
}

// loadConfig applies the precedence chain: flags > env > config file > defaults.
func (j *buildJob) loadConfig() (*config.Config, error) {
	env := loadEnvConfig()

	path := j.flags.common.config
	if path == "" {
		path = env.ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadConfig(path)
	} else {
		cfg, err = config.LoadForRoot(j.root)
	}
	if err != nil {
		return nil, err
	}

	applyEnvConfig(env, cfg)
	applyFlags(j.flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	j.cfg = cfg
	return cfg, nil
}

// options translates the resolved config into renderer options.
func (j *buildJob) options(cfg *config.Config) []mdbook.Option {
	opts := []mdbook.Option{
		mdbook.WithLogger(j.logger),
		mdbook.WithFormat(cfg.Output.Pandoc.Format),
		mdbook.WithCommand(cfg.Output.Pandoc.Command),
		mdbook.WithPDFEngine(cfg.Output.Pandoc.PDFEngine),
		mdbook.WithTimeout(cfg.PandocTimeout()),
		mdbook.WithPrintTimeout(cfg.PrintTimeout()),
		mdbook.WithSmartPunctuation(cfg.Output.HTML.SmartPunctuation),
	}
	if cfg.Build.StagingDir != "" {
		opts = append(opts, mdbook.WithStagingDir(resolvePath(j.root, cfg.Build.StagingDir)))
	}
	if j.recorder != nil {
		opts = append(opts, mdbook.WithRecorder(j.recorder))
	}
	if j.env.Runner != nil {
		opts = append(opts, mdbook.WithRunner(j.env.Runner))
	}
	return opts
}

// build loads the book and runs one full render.
func (j *buildJob) build(ctx context.Context) error {
	start := j.env.Now()

	cfg, err := j.loadConfig()
	if err != nil {
		return err
	}

	book, err := mdbook.LoadWithConfig(j.root, cfg)
	if err != nil {
		return err
	}

	renderer, err := mdbook.NewRenderer(cfg.Build.Renderer, j.options(cfg)...)
	if err != nil {
		return err
	}

	renderErr := renderer.Render(ctx, book)
	if j.registry != nil {
		if err := prometheus.WriteToTextfile(j.flags.metricsFile, j.registry); err != nil {
			j.logger.Warn("writing metrics file failed", "path", j.flags.metricsFile, "error", err)
		}
	}
	if renderErr != nil {
		return renderErr
	}

	j.logger.Info("book built",
		"renderer", cfg.Build.Renderer,
		"destination", book.Destination,
		"duration", j.env.Now().Sub(start).Round(time.Millisecond))
	return nil
}

// destination returns the output directory of the last resolved config.
func (j *buildJob) destination() string {
	dir := config.DefaultBuildDir
	if j.cfg != nil && j.cfg.Build.BuildDir != "" {
		dir = j.cfg.Build.BuildDir
	}
	return resolvePath(j.root, dir)
}

// resolvePath resolves p against root unless it is already absolute.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
