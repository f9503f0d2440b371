package filer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLedgerFile is the ledger's name below the module root.
const DefaultLedgerFile = ".propreg-ledger.yaml"

const ledgerVersion = 1

// Ledger is the persisted record of what a build generated and why.
type Ledger struct {
	Version   int           `yaml:"version"`
	Session   string        `yaml:"session,omitempty"`
	Timestamp time.Time     `yaml:"timestamp,omitempty"`
	Outputs   []LedgerEntry `yaml:"outputs"`
}

// LedgerEntry is one generated output.
type LedgerEntry struct {
	Path    string   `yaml:"path"`
	Kind    Kind     `yaml:"kind"`
	Package string   `yaml:"package,omitempty"`
	Origins []string `yaml:"origins,omitempty"`
}

// NewLedger records outputs. Origin files are made relative to root.
func NewLedger(root, session string, ts time.Time, outputs []Output) *Ledger {
	loc := location{root: root}
	l := &Ledger{Version: ledgerVersion, Session: session, Timestamp: ts.UTC()}
	for _, out := range outputs {
		e := LedgerEntry{Path: out.Path, Kind: out.Kind, Package: out.Package}
		for _, o := range out.Origins {
			if o.File == "" {
				e.Origins = append(e.Origins, o.String())
				continue
			}
			e.Origins = append(e.Origins, fmt.Sprintf("%s:%d", loc.rel(o.File), o.Line))
		}
		l.Outputs = append(l.Outputs, e)
	}
	return l
}

// ReadLedger loads a ledger. A missing file yields an empty ledger.
func ReadLedger(path string) (*Ledger, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Ledger{Version: ledgerVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	var l Ledger
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	if l.Version != ledgerVersion {
		return nil, fmt.Errorf("ledger %s has unsupported version %d", path, l.Version)
	}
	return &l, nil
}

// Write persists the ledger atomically.
func (l *Ledger) Write(path string) error {
	b, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	f, err := openAtomic(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return f.Close()
}

// Paths returns the recorded output paths of the given kind, or of every kind
// when kind is empty.
func (l *Ledger) Paths(kind Kind) []string {
	var out []string
	for _, e := range l.Outputs {
		if kind == "" || e.Kind == kind {
			out = append(out, e.Path)
		}
	}
	return out
}

// Stale returns the entries of l that current no longer produces.
func (l *Ledger) Stale(current *Ledger) []LedgerEntry {
	keep := current.Paths("")
	var stale []LedgerEntry
	for _, e := range l.Outputs {
		if !slices.Contains(keep, e.Path) {
			stale = append(stale, e)
		}
	}
	return stale
}

// Remove deletes the files of entries below root. Missing files are skipped.
// It returns the paths actually removed.
func Remove(root string, entries []LedgerEntry) ([]string, error) {
	var removed []string
	var errs []error
	for _, e := range entries {
		abs := Abs(root, e.Path)
		err := os.Remove(abs)
		switch {
		case err == nil:
			removed = append(removed, e.Path)
			pruneEmptyDirs(root, filepath.Dir(abs))
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", e.Path, err))
		}
	}
	return removed, errors.Join(errs...)
}

// pruneEmptyDirs removes empty directories from dir upward, stopping at root.
func pruneEmptyDirs(root, dir string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			return
		}
	}
}
