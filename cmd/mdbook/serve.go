package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Preview server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// StatusPath reports the outcome of the last build as JSON.
const StatusPath = "/__mdbook/status"

// buildStatus tracks the last build outcome for the preview server.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
	builtAt      time.Time
}

func (bs *buildStatus) record(err error, at time.Time) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.builtAt = at
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (lastErr error, hasGoodBuild bool, builtAt time.Time) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild, bs.builtAt
}

type statusResponse struct {
	OK      bool      `json:"ok"`
	Error   string    `json:"error,omitempty"`
	BuiltAt time.Time `json:"builtAt"`
}

func (bs *buildStatus) handle(w http.ResponseWriter, _ *http.Request) {
	lastErr, _, builtAt := bs.get()
	resp := statusResponse{OK: lastErr == nil, BuiltAt: builtAt}
	if lastErr != nil {
		resp.Error = lastErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(resp)
}

// guard answers 503 with the build error until a build has succeeded.
// After that, stale output keeps being served and the error travels in a header.
func (bs *buildStatus) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastErr, hasGoodBuild, _ := bs.get()
		if lastErr != nil {
			if !hasGoodBuild {
				http.Error(w, "build failed: "+lastErr.Error(), http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("X-Mdbook-Build-Error", strconv.Quote(lastErr.Error()))
		}
		next.ServeHTTP(w, r)
	})
}

// newServeRouter serves dir with build status reporting.
func newServeRouter(dir string, status *buildStatus, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get(StatusPath, status.handle)
	r.With(status.guard).Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

// requestLogger logs each request at debug level with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// runServe builds the book, serves its destination and rebuilds on change
// until ctx is canceled or the server fails.
func runServe(ctx context.Context, job *buildJob, f *serveFlags) error {
	status := &buildStatus{}
	rebuild := func(ctx context.Context) error {
		err := job.build(ctx)
		status.record(err, job.env.Now())
		return err
	}

	if err := rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		job.logger.Error("initial build failed", "error", err)
	}

	addr := net.JoinHostPort(f.hostname, strconv.Itoa(f.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           newServeRouter(job.destination(), status, job.logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
		cancel()
	}()
	job.logger.Info("serving book", "url", "http://"+ln.Addr().String())

	watchErr := newWatchLoop(job, rebuild).run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		job.logger.Warn("server shutdown error", "error", err)
	}

	if err := <-serveErr; err != nil {
		return fmt.Errorf("preview server: %w", err)
	}
	return watchErr
}
