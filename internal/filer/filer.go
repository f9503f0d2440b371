package filer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/vk/propreg/internal/decl"
)

// ErrExists is returned when an output is created twice by the same filer.
var ErrExists = errors.New("output already created in this build")

// Kind tells sources and resources apart.
type Kind string

const (
	KindSource   Kind = "source"
	KindResource Kind = "resource"
)

// SourceName identifies a generated source file.
type SourceName struct {
	// Package is the import path of the package the file belongs to.
	Package string
	// Type is the simple name of the generated type.
	Type string
	// File is the base name of the file, written next to the origin.
	File string
}

// Output is one created output and the declarations that caused it.
type Output struct {
	Kind Kind
	// Path is slash-separated and relative to the filer root when the output
	// lives below it.
	Path    string
	Package string
	Origins []decl.Origin
}

// Filer creates build outputs.
type Filer interface {
	// CreateSource opens a generated source file attributed to origin. The
	// file is placed in origin.Dir.
	CreateSource(name SourceName, origin decl.Origin) (io.WriteCloser, error)
	// CreateResource opens a resource at the slash-separated logical path,
	// below the filer's resource directory.
	CreateResource(path string, origins ...decl.Origin) (io.WriteCloser, error)
	// Created lists every output created so far, in creation order.
	Created() []Output
}

// location resolves the on-disk location of an output and its ledger path.
type location struct {
	root        string
	resourceDir string
}

func (l location) source(name SourceName, origin decl.Origin) (abs, rel string) {
	dir := origin.Dir
	if dir == "" {
		dir = l.root
	}
	abs = filepath.Join(dir, name.File)
	return abs, l.rel(abs)
}

func (l location) resource(path string) (abs, rel string) {
	abs = filepath.Join(l.root, l.resourceDir, filepath.FromSlash(path))
	return abs, l.rel(abs)
}

func (l location) rel(abs string) string {
	if l.root == "" {
		return filepath.ToSlash(abs)
	}
	r, err := filepath.Rel(l.root, abs)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(r)
}

// Abs returns the absolute location of a ledger path below root.
func Abs(root, path string) string {
	if filepath.IsAbs(filepath.FromSlash(path)) {
		return filepath.FromSlash(path)
	}
	return filepath.Join(root, filepath.FromSlash(path))
}
