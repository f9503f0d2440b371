// Package manifest writes and reads the discovery manifest: the list of every
// registrar a build generated, one fully-qualified type name per line.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/filer"
)

// Capability is the fully-qualified name of the interface every generated
// registrar implements. The manifest is keyed by it.
const Capability = "github.com/vk/propreg/pkg/registrar.Registrar"

// Path is the manifest's logical location below the resource directory.
const Path = "META-INF/services/" + Capability

// ErrAlreadyWritten is returned when a Writer is asked to write twice.
var ErrAlreadyWritten = errors.New("manifest already written")

// Entry is one manifest line and the declaration that caused it.
type Entry struct {
	Registrar string
	Origin    decl.Origin
}

// Writer writes the manifest at most once.
type Writer struct {
	filer filer.Filer

	mu      sync.Mutex
	written bool
}

// NewWriter creates a writer that creates the manifest through f.
func NewWriter(f filer.Filer) *Writer {
	return &Writer{filer: f}
}

// Write creates the manifest with one registrar name per line, in the given
// order. Every failure is returned. After a failed write the output is still
// closed, which makes the filer discard it instead of publishing a partial
// manifest.
func (w *Writer) Write(entries []Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return ErrAlreadyWritten
	}
	w.written = true

	origins := make([]decl.Origin, 0, len(entries))
	for _, e := range entries {
		origins = append(origins, e.Origin)
	}

	out, err := w.filer.CreateResource(Path, origins...)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", Path, err)
	}
	bw := bufio.NewWriter(out)
	for _, e := range entries {
		bw.WriteString(e.Registrar)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("failed to write manifest %s: %w", Path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close manifest %s: %w", Path, err)
	}
	return nil
}

// Written reports whether Write has been called.
func (w *Writer) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Read parses a manifest. Surrounding whitespace is trimmed; blank lines and
// lines starting with '#' are skipped.
func Read(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return names, nil
}
