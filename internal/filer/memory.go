package filer

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/vk/propreg/internal/decl"
)

// Memory keeps outputs in memory. Content becomes visible on Close.
type Memory struct {
	loc location

	mu      sync.Mutex
	seen    map[string]bool
	files   map[string][]byte
	outputs []Output
}

// NewMemory creates an in-memory filer. root and resourceDir only shape the
// recorded paths, nothing is written to disk.
func NewMemory(root, resourceDir string) *Memory {
	return &Memory{
		loc:   location{root: root, resourceDir: resourceDir},
		seen:  make(map[string]bool),
		files: make(map[string][]byte),
	}
}

// CreateSource implements Filer.
func (m *Memory) CreateSource(name SourceName, origin decl.Origin) (io.WriteCloser, error) {
	_, rel := m.loc.source(name, origin)
	return m.create(Output{Kind: KindSource, Path: rel, Package: name.Package, Origins: []decl.Origin{origin}})
}

// CreateResource implements Filer.
func (m *Memory) CreateResource(path string, origins ...decl.Origin) (io.WriteCloser, error) {
	_, rel := m.loc.resource(path)
	return m.create(Output{Kind: KindResource, Path: rel, Origins: slices.Clone(origins)})
}

// Created implements Filer.
func (m *Memory) Created() []Output {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.outputs)
}

// File returns the content of a closed output by its recorded path.
func (m *Memory) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	return bytes.Clone(b), ok
}

// Files returns a copy of every closed output keyed by recorded path.
func (m *Memory) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := maps.Clone(m.files)
	for k, v := range out {
		out[k] = bytes.Clone(v)
	}
	return out
}

func (m *Memory) create(out Output) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[out.Path] {
		return nil, fmt.Errorf("%w: %s", ErrExists, out.Path)
	}
	m.seen[out.Path] = true
	m.outputs = append(m.outputs, out)
	return &memoryFile{m: m, path: out.Path}, nil
}

type memoryFile struct {
	m      *Memory
	path   string
	buf    bytes.Buffer
	closed bool
}

func (f *memoryFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("write to closed output %s", f.path)
	}
	return f.buf.Write(p)
}

func (f *memoryFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.m.mu.Lock()
	f.m.files[f.path] = f.buf.Bytes()
	f.m.mu.Unlock()
	return nil
}
