package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/gosource"
	"github.com/vk/propreg/internal/manifest"
)

// ManifestEntry is one registrar listed in the manifest.
type ManifestEntry struct {
	Registrar string
	// File is the ledger path of the generated source declaring the
	// registrar, empty when none does.
	File string
}

// Found reports whether a generated source declares the registrar.
func (e ManifestEntry) Found() bool { return e.File != "" }

// Manifest reads the manifest from disk and looks up each listed registrar in
// the generated sources recorded in the ledger. Entries without a source are
// reported with an error wrapping ErrManifestMismatch.
func (a *App) Manifest(ctx context.Context) ([]ManifestEntry, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	path := filepath.Join(a.root, a.settings.Output.ResourceDir, filepath.FromSlash(manifest.Path))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	names, err := manifest.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	declared, err := a.declaredRegistrars()
	if err != nil {
		return nil, err
	}

	entries := make([]ManifestEntry, 0, len(names))
	missing := 0
	for _, name := range names {
		e := ManifestEntry{Registrar: name, File: declared[name]}
		if !e.Found() {
			missing++
			logger.Warn("Manifest entry has no generated source", "registrar", name)
		}
		entries = append(entries, e)
	}
	if missing > 0 {
		return entries, fmt.Errorf("%w: %d of %d registrar(s) not found", ErrManifestMismatch, missing, len(names))
	}
	return entries, nil
}

// declaredRegistrars maps the fully-qualified name of every type declared in
// a ledger source to that source's ledger path.
func (a *App) declaredRegistrars() (map[string]string, error) {
	ledger, err := filer.ReadLedger(a.ledgerPath())
	if err != nil {
		return nil, err
	}
	declared := make(map[string]string)
	for _, e := range ledger.Outputs {
		if e.Kind != filer.KindSource {
			continue
		}
		units, err := gosource.ParseFile(filer.Abs(a.root, e.Path), nil, e.Package)
		if err != nil {
			return nil, fmt.Errorf("failed to parse generated source: %w", err)
		}
		for _, u := range units {
			declared[u.CanonicalName()] = e.Path
		}
	}
	return declared, nil
}
