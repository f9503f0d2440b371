package app

import (
	"context"
	"fmt"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/manifest"
	"github.com/vk/propreg/internal/scanner"
	"github.com/vk/propreg/internal/session"
)

// Report summarizes a generate run.
type Report struct {
	Session    string
	Rounds     int
	Registrars []manifest.Entry
	Violations []session.Violation
	Outputs    []filer.Output
	// Removed lists outputs of the previous build that this one no longer
	// produces.
	Removed []string
}

// Generate builds the configured packages, writes registrars and the
// manifest to disk, records them in the ledger and removes stale outputs.
// In strict mode a build with violations returns the report together with an
// error wrapping ErrViolations.
func (a *App) Generate(ctx context.Context) (*Report, error) {
	return a.generate(a.withLogger(ctx), scanner.New(a.settings.Marker))
}

func (a *App) generate(ctx context.Context, sc scanner.Interface) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	previous, err := filer.ReadLedger(a.ledgerPath())
	if err != nil {
		return nil, err
	}

	disk := filer.NewDisk(a.root, a.settings.Output.ResourceDir)
	sess, res, err := a.build(ctx, sc, disk)
	if err != nil {
		return nil, err
	}

	current := filer.NewLedger(a.root, sess.ID(), sess.Timestamp(), disk.Created())
	removed, err := filer.Remove(a.root, previous.Stale(current))
	if err != nil {
		return nil, fmt.Errorf("failed to remove stale outputs: %w", err)
	}
	for _, path := range removed {
		logger.Info("Removed stale output", "path", path)
	}
	if err := current.Write(a.ledgerPath()); err != nil {
		return nil, err
	}

	report := &Report{
		Session:    sess.ID(),
		Rounds:     res.Rounds,
		Registrars: sess.Registrars(),
		Violations: sess.Violations(),
		Outputs:    disk.Created(),
		Removed:    removed,
	}
	logger.Debug("Generate finished.", "outputs", len(report.Outputs), "removed", len(removed), "violations", len(report.Violations))

	if a.settings.Strict && len(report.Violations) > 0 {
		return report, fmt.Errorf("%w: %d in strict mode", ErrViolations, len(report.Violations))
	}
	return report, nil
}
