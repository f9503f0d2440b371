package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/propreg/internal/build"
	"github.com/vk/propreg/internal/config"
	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/diag"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/generator"
	"github.com/vk/propreg/internal/gosource"
	"github.com/vk/propreg/internal/scanner"
	"github.com/vk/propreg/internal/session"
	"github.com/vk/propreg/internal/tracing"
	"github.com/vk/propreg/internal/watcher"
)

// Tool is the name written into the header of generated files.
const Tool = "propreg"

// Version is set at link time.
var Version = "dev"

var (
	// ErrViolations is returned by strict runs that found invalid property
	// declarations.
	ErrViolations = errors.New("invalid property declarations found")
	// ErrStale is returned by Check when generated files are out of date.
	ErrStale = errors.New("generated files are out of date")
	// ErrManifestMismatch is returned by Manifest when a listed registrar is
	// not declared by any generated source.
	ErrManifestMismatch = errors.New("manifest does not match generated sources")
)

// App encapsulates the application's dependencies, settings, and lifecycle.
type App struct {
	logger   *slog.Logger
	settings *config.Settings
	root     string
	naming   generator.Naming
	loader   build.Loader
	tracing  *tracing.Provider
	now      func() time.Time
	getenv   func(string) string
	goEnv    []string
	debounce time.Duration
}

// Option configures an App.
type Option func(*App)

// WithLoader replaces the go/packages loader.
func WithLoader(l build.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithClock replaces time.Now for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithGetenv replaces os.Getenv for SOURCE_DATE_EPOCH lookups.
func WithGetenv(fn func(string) string) Option {
	return func(a *App) { a.getenv = fn }
}

// WithGoEnv sets the environment of the go command used to load packages.
func WithGoEnv(env []string) Option {
	return func(a *App) { a.goEnv = env }
}

// WithDebounce sets the watch mode debounce.
func WithDebounce(d time.Duration) Option {
	return func(a *App) { a.debounce = d }
}

// NewApp is the constructor for the main application. It expects validated
// settings and writes its log to logW.
func NewApp(ctx context.Context, logW io.Writer, s *config.Settings, opts ...Option) (*App, error) {
	logger := newLogger(s.Log.Level, s.Log.Format, logW)
	logger.Debug("Logger configured successfully.")

	root, err := filepath.Abs(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module root %s: %w", s.Dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	naming := generator.Naming{
		Prefix:     s.Naming.Prefix,
		Separator:  s.Naming.Separator,
		Suffix:     s.Naming.Suffix,
		FileSuffix: s.Output.SourceSuffix,
	}
	if err := naming.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		logger:   logger,
		settings: s,
		root:     root,
		naming:   naming,
		now:      time.Now,
		getenv:   os.Getenv,
		debounce: watcher.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loader == nil {
		a.loader = &gosource.Loader{
			Dir:        root,
			SkipSuffix: s.Output.SourceSuffix,
			Env:        a.goEnv,
			BuildFlags: buildFlags(s.BuildTags),
		}
	}

	a.tracing, err = tracing.NewProvider(ctx, tracing.Config{
		Enabled:      s.Trace.Enabled,
		Exporter:     s.Trace.Exporter,
		FilePath:     s.Trace.File,
		OTLPEndpoint: s.Trace.Endpoint,
		ServiceName:  Tool,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	logger.Debug("App configured.", "root", root, "marker", s.Marker, "packages", s.Packages, "tracing", a.tracing.Enabled())
	return a, nil
}

// Close flushes pending trace spans.
func (a *App) Close(ctx context.Context) error {
	a.logger.Debug("App closing.")
	return a.tracing.Shutdown(ctx)
}

// Root returns the absolute module root.
func (a *App) Root() string { return a.root }

// Settings returns the settings the app was built with.
func (a *App) Settings() *config.Settings { return a.settings }

// withLogger attaches the app logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) ledgerPath() string {
	return filer.Abs(a.root, filepath.ToSlash(a.settings.Output.Ledger))
}

// build runs one full build into f.
func (a *App) build(ctx context.Context, sc scanner.Interface, f filer.Filer) (*session.Session, *build.Result, error) {
	logger := ctxlog.FromContext(ctx)
	gen := generator.New(a.naming, Tool, generator.WithRuntimeImport(a.settings.Output.RuntimeImport))
	sess, err := session.New(session.Options{
		Scanner:   sc,
		Generator: gen,
		Filer:     f,
		Reporter:  diag.NewSlog(logger),
		Tracer:    a.tracing.Tracer(),
		Now:       a.now,
		Getenv:    a.getenv,
	})
	if err != nil {
		return nil, nil, err
	}

	driver := build.New(a.loader, build.WithTracer(a.tracing.Tracer()))
	res, err := driver.Run(ctx, sess, a.settings.Packages...)
	if err != nil {
		return sess, res, fmt.Errorf("build failed: %w", err)
	}
	return sess, res, nil
}

func buildFlags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(tags, ",")}
}
