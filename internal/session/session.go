package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/diag"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/generator"
	"github.com/vk/propreg/internal/manifest"
	"github.com/vk/propreg/internal/model"
	"github.com/vk/propreg/internal/scanner"
)

var (
	// ErrGeneration wraps every failure to write a registrar or the manifest.
	// It is fatal to the build.
	ErrGeneration = errors.New("generation failed")
	// ErrSessionFinished is returned for any round after the last one.
	ErrSessionFinished = errors.New("session already finished")
)

// Violation is a structural problem found in one root declaration.
type Violation struct {
	Root    string
	Origin  decl.Origin
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Origin, v.Message)
}

// Session is the state of one build. Create one per build with New.
type Session struct {
	id        string
	timestamp time.Time

	scanner   scanner.Interface
	generator *generator.Generator
	filer     filer.Filer
	manifest  *manifest.Writer
	reporter  diag.Reporter
	tracer    trace.Tracer

	// mu guards everything below. Appending a registrar and the terminal
	// flush check happen under it, so the manifest always sees a complete
	// accumulator.
	mu         sync.Mutex
	passes     int
	entries    []manifest.Entry
	artifacts  []*model.RegistrarArtifact
	violations []Violation
	finished   bool
}

// New starts a build session. The build timestamp is captured here.
func New(opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid session options: %w", err)
	}
	opts.setDefaults()
	ts, err := opts.timestamp()
	if err != nil {
		return nil, err
	}
	return &Session{
		id:        uuid.NewString(),
		timestamp: ts,
		scanner:   opts.Scanner,
		generator: opts.Generator,
		filer:     opts.Filer,
		manifest:  manifest.NewWriter(opts.Filer),
		reporter:  opts.Reporter,
		tracer:    opts.Tracer,
	}, nil
}

// Process handles one round. Roots are processed in order; the first write
// failure aborts the round with an error wrapping ErrGeneration. When the
// round is the last one the manifest is written afterwards, if any registrar
// was generated during the build.
func (s *Session) Process(ctx context.Context, r Round) (err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return ErrSessionFinished
	}
	s.passes++
	pass := s.passes
	s.mu.Unlock()

	roots := r.Roots()
	ctx = ctxlog.With(ctx, "session", s.id, "pass", pass)
	logger := ctxlog.FromContext(ctx)

	ctx, span := s.tracer.Start(ctx, "propreg.round", trace.WithAttributes(
		attribute.String("propreg.session", s.id),
		attribute.Int("propreg.pass", pass),
		attribute.Int("propreg.roots", len(roots)),
		attribute.Bool("propreg.last", r.Over()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if r.Over() {
		logger.Debug("This is the last round of processing", "roots", len(roots))
	} else {
		logger.Debug("Just another round of processing", "roots", len(roots))
	}

	generated := 0
	for _, unit := range roots {
		ok, err := s.processUnit(ctx, unit)
		if err != nil {
			return err
		}
		if ok {
			generated++
		}
	}
	s.reporter.Info("Round complete", "session", s.id, "pass", pass, "roots", len(roots), "generated", generated)

	if r.Over() {
		return s.finish(ctx)
	}
	return nil
}

// processUnit scans one root and writes its registrar. It reports whether a
// registrar was generated.
func (s *Session) processUnit(ctx context.Context, unit *decl.Unit) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	cu := s.scanner.Scan(unit)

	for _, msg := range cu.Errors() {
		v := Violation{Root: cu.RootName(), Origin: unit.Origin, Message: msg}
		s.mu.Lock()
		s.violations = append(s.violations, v)
		s.mu.Unlock()
		s.reporter.Error("Invalid property declaration", "root", v.Root, "origin", v.Origin.String(), "error", v.Message)
	}

	if !cu.HasRegistrations() {
		return false, nil
	}

	regs := cu.Registrations()
	logger.Debug("Found registrations", "root", cu.RootName(), "count", len(regs))
	for _, p := range regs {
		logger.Debug("Found property", "property", p.CanonicalName(), "root", p.RootName(), "parent", p.ParentName())
	}

	art, err := s.generator.Generate(cu, s.timestamp)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrGeneration, cu.RootName(), err)
	}

	logger.Debug("Writing generated source", "registrar", art.FullName(), "file", art.FileName())
	if err := s.write(art, unit.Origin); err != nil {
		return false, fmt.Errorf("%w: unable to write registrar %s: %w", ErrGeneration, art.FullName(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false, ErrSessionFinished
	}
	s.entries = append(s.entries, manifest.Entry{Registrar: art.FullName(), Origin: unit.Origin})
	s.artifacts = append(s.artifacts, art)
	return true, nil
}

func (s *Session) write(art *model.RegistrarArtifact, origin decl.Origin) error {
	name := filer.SourceName{Package: art.Package(), Type: art.TypeName(), File: art.FileName()}
	w, err := s.filer.CreateSource(name, origin)
	if err != nil {
		return err
	}
	if _, err := w.Write(art.Source()); err != nil {
		// The filer discards an output whose write failed.
		w.Close()
		return err
	}
	return w.Close()
}

// finish writes the manifest once and marks the session finished.
func (s *Session) finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	s.finished = true

	if len(s.entries) == 0 {
		ctxlog.FromContext(ctx).Debug("No registrars generated, skipping manifest")
		return nil
	}

	ctxlog.FromContext(ctx).Debug("Writing service registrars file", "path", manifest.Path, "registrars", len(s.entries))
	if err := s.manifest.Write(slices.Clone(s.entries)); err != nil {
		if errors.Is(err, manifest.ErrAlreadyWritten) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Timestamp returns the build timestamp shared by every registrar.
func (s *Session) Timestamp() time.Time { return s.timestamp }

// Registrars returns the accumulated registrar names in discovery order.
func (s *Session) Registrars() []manifest.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Artifacts returns every generated registrar in discovery order.
func (s *Session) Artifacts() []*model.RegistrarArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.artifacts)
}

// Violations returns every structural problem found so far.
func (s *Session) Violations() []Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.violations)
}

// Passes returns the number of rounds processed.
func (s *Session) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// Finished reports whether the last round has been processed.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}
