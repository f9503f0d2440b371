package filer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vk/propreg/internal/decl"
)

// Disk writes outputs into the file system below root. Resources go to
// root/resourceDir.
type Disk struct {
	loc location

	mu      sync.Mutex
	seen    map[string]bool
	outputs []Output
}

// NewDisk creates a filer rooted at root.
func NewDisk(root, resourceDir string) *Disk {
	return &Disk{
		loc:  location{root: root, resourceDir: resourceDir},
		seen: make(map[string]bool),
	}
}

// Root returns the directory ledger paths are relative to.
func (d *Disk) Root() string { return d.loc.root }

// CreateSource implements Filer.
func (d *Disk) CreateSource(name SourceName, origin decl.Origin) (io.WriteCloser, error) {
	abs, rel := d.loc.source(name, origin)
	if err := d.claim(Output{Kind: KindSource, Path: rel, Package: name.Package, Origins: []decl.Origin{origin}}); err != nil {
		return nil, err
	}
	return openAtomic(abs)
}

// CreateResource implements Filer.
func (d *Disk) CreateResource(path string, origins ...decl.Origin) (io.WriteCloser, error) {
	abs, rel := d.loc.resource(path)
	if err := d.claim(Output{Kind: KindResource, Path: rel, Origins: slices.Clone(origins)}); err != nil {
		return nil, err
	}
	return openAtomic(abs)
}

// Created implements Filer.
func (d *Disk) Created() []Output {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.outputs)
}

func (d *Disk) claim(out Output) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[out.Path] {
		return fmt.Errorf("%w: %s", ErrExists, out.Path)
	}
	d.seen[out.Path] = true
	d.outputs = append(d.outputs, out)
	return nil
}

// atomicFile writes to a temporary sibling of its target and renames it into
// place on Close. After a failed Write, Close discards the temporary file and
// returns the write error instead.
type atomicFile struct {
	tmp    *os.File
	target string
	err    error
	closed bool
}

func openAtomic(target string) (*atomicFile, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", target, err)
	}
	return &atomicFile{tmp: tmp, target: target}, nil
}

func (f *atomicFile) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmp.Write(p)
	if err != nil {
		f.err = err
	}
	return n, err
}

func (f *atomicFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.err != nil {
		f.tmp.Close()
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.target, f.err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.target, err)
	}
	if err := os.Chmod(f.tmp.Name(), 0o644); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.target, err)
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.target, err)
	}
	return nil
}
