// Package build is the host build for propreg: it loads Go packages and
// drives a session through discovery rounds until no new sources appear.
//
// The first round presents every root declaration of the loaded packages.
// Registrars generated in a round are parsed and presented as the roots of
// the next one, the way a compiler presents generated sources to annotation
// processors. Once a round generates nothing the last round is signaled and
// the session writes the manifest.
package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/gosource"
	"github.com/vk/propreg/internal/model"
	"github.com/vk/propreg/internal/session"
	"github.com/vk/propreg/internal/tracing"
)

// DefaultMaxRounds bounds the number of non-terminal rounds.
const DefaultMaxRounds = 10

// ErrTooManyRounds is returned when generated sources keep producing new
// generated sources.
var ErrTooManyRounds = errors.New("too many discovery rounds")

// Loader is the part of gosource.Loader the driver needs.
type Loader interface {
	Load(ctx context.Context, patterns ...string) (*gosource.Result, error)
}

// Driver runs builds.
type Driver struct {
	loader    Loader
	tracer    trace.Tracer
	maxRounds int
}

// Option configures a Driver.
type Option func(*Driver)

// WithTracer records a span per build.
func WithTracer(t trace.Tracer) Option {
	return func(d *Driver) { d.tracer = t }
}

// WithMaxRounds overrides DefaultMaxRounds.
func WithMaxRounds(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxRounds = n
		}
	}
}

// New creates a driver loading packages with loader.
func New(loader Loader, opts ...Option) *Driver {
	d := &Driver{loader: loader, tracer: tracing.Noop(), maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result summarizes a finished build.
type Result struct {
	Packages []gosource.Package
	Roots    int
	Rounds   int
}

// Run loads the packages matching patterns and drives sess to completion.
func (d *Driver) Run(ctx context.Context, sess *session.Session, patterns ...string) (res *Result, err error) {
	ctx = ctxlog.With(ctx, "session", sess.ID())
	logger := ctxlog.FromContext(ctx)

	ctx, span := d.tracer.Start(ctx, "propreg.build", trace.WithAttributes(
		attribute.String("propreg.session", sess.ID()),
		attribute.StringSlice("propreg.patterns", patterns),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	loaded, err := d.loader.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}
	res = &Result{Packages: loaded.Packages, Roots: len(loaded.Units)}

	roots := loaded.Units
	for {
		if res.Rounds == d.maxRounds {
			return res, fmt.Errorf("%w: still generating after %d rounds", ErrTooManyRounds, res.Rounds)
		}
		seen := len(sess.Artifacts())
		if err := sess.Process(ctx, session.Pass{Units: roots}); err != nil {
			return res, err
		}
		res.Rounds++

		fresh := sess.Artifacts()[seen:]
		if len(fresh) == 0 {
			break
		}
		roots, err = generatedRoots(fresh)
		if err != nil {
			return res, err
		}
		res.Roots += len(roots)
		logger.Debug("Generated sources become roots of the next round", "sources", len(fresh), "roots", len(roots))
	}

	if err := sess.Process(ctx, session.Pass{Last: true}); err != nil {
		return res, err
	}
	res.Rounds++
	logger.Info("Build complete", "rounds", res.Rounds, "roots", res.Roots, "registrars", len(sess.Registrars()))
	return res, nil
}

// generatedRoots parses generated sources so the next round sees them.
func generatedRoots(arts []*model.RegistrarArtifact) ([]*decl.Unit, error) {
	var roots []*decl.Unit
	for _, a := range arts {
		filename := filepath.Join(a.Origin().Dir, a.FileName())
		units, err := gosource.ParseFile(filename, a.Source(), a.Package())
		if err != nil {
			return nil, fmt.Errorf("generated source of %s does not parse: %w", a.RootName(), err)
		}
		roots = append(roots, units...)
	}
	return roots, nil
}
