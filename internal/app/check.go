package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/generator"
	"github.com/vk/propreg/internal/scanner"
)

// DriftKind classifies a difference between a fresh build and the disk.
type DriftKind string

const (
	DriftMissing  DriftKind = "missing"
	DriftModified DriftKind = "modified"
	DriftStale    DriftKind = "stale"
)

// Drift is one output that differs from what a build would produce.
type Drift struct {
	Kind DriftKind
	Path string
	// Diff is a line diff from the disk content to the expected content,
	// set for DriftModified.
	Diff string
}

// Check builds into memory and compares the result with the disk. Generated
// sources are compared without their provenance line, so a differing
// timestamp alone is not drift. Any drift is returned together with an error
// wrapping ErrStale.
func (a *App) Check(ctx context.Context) ([]Drift, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	mem := filer.NewMemory(a.root, a.settings.Output.ResourceDir)
	if _, _, err := a.build(ctx, scanner.New(a.settings.Marker), mem); err != nil {
		return nil, err
	}

	var drift []Drift
	var produced []string
	for _, out := range mem.Created() {
		produced = append(produced, out.Path)
		want, _ := mem.File(out.Path)
		got, err := os.ReadFile(filer.Abs(a.root, out.Path))
		if errors.Is(err, fs.ErrNotExist) {
			drift = append(drift, Drift{Kind: DriftMissing, Path: out.Path})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", out.Path, err)
		}
		if out.Kind == filer.KindSource {
			got, want = generator.StripProvenance(got), generator.StripProvenance(want)
		}
		if !bytes.Equal(got, want) {
			drift = append(drift, Drift{Kind: DriftModified, Path: out.Path, Diff: lineDiff(string(got), string(want))})
		}
	}

	previous, err := filer.ReadLedger(a.ledgerPath())
	if err != nil {
		return nil, err
	}
	for _, e := range previous.Outputs {
		if slices.Contains(produced, e.Path) {
			continue
		}
		if _, err := os.Stat(filer.Abs(a.root, e.Path)); err == nil {
			drift = append(drift, Drift{Kind: DriftStale, Path: e.Path})
		}
	}

	logger.Debug("Check finished.", "outputs", len(produced), "drift", len(drift))
	if len(drift) > 0 {
		return drift, fmt.Errorf("%w: %d file(s) differ", ErrStale, len(drift))
	}
	return nil, nil
}

// lineDiff renders a line-level diff with "-" and "+" prefixes for removed
// and added lines.
func lineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			prefix = " "
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
