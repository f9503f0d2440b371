package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vk/propreg/internal/diag"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/generator"
	"github.com/vk/propreg/internal/scanner"
	"github.com/vk/propreg/internal/tracing"
)

// SourceDateEpochEnv overrides the build timestamp for reproducible builds.
const SourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// Options are the collaborators of a session.
type Options struct {
	Scanner   scanner.Interface
	Generator *generator.Generator
	Filer     filer.Filer
	// Reporter receives pass summaries and violations. Defaults to discard.
	Reporter diag.Reporter
	// Tracer defaults to a no-op tracer.
	Tracer trace.Tracer
	// Now defaults to time.Now.
	Now func() time.Time
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

func (o *Options) validate() error {
	var errs []error
	if o.Scanner == nil {
		errs = append(errs, errors.New("scanner is required"))
	}
	if o.Generator == nil {
		errs = append(errs, errors.New("generator is required"))
	}
	if o.Filer == nil {
		errs = append(errs, errors.New("filer is required"))
	}
	return errors.Join(errs...)
}

func (o *Options) setDefaults() {
	if o.Reporter == nil {
		o.Reporter = diag.Discard
	}
	if o.Tracer == nil {
		o.Tracer = tracing.Noop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
}

// timestamp returns the build timestamp: SOURCE_DATE_EPOCH when set,
// otherwise the current time, truncated to seconds.
func (o *Options) timestamp() (time.Time, error) {
	if v := o.Getenv(SourceDateEpochEnv); v != "" {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s %q: %w", SourceDateEpochEnv, v, err)
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	return o.Now().UTC().Truncate(time.Second), nil
}
