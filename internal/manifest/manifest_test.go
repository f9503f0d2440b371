package manifest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/filer"
)

func TestWriter_WritesOnceInOrder(t *testing.T) {
	mem := filer.NewMemory("", "")
	w := NewWriter(mem)
	entries := []Entry{
		{Registrar: "example.com/b.B__PropertyRegistrar", Origin: decl.Origin{Package: "example.com/b"}},
		{Registrar: "example.com/a.A__PropertyRegistrar", Origin: decl.Origin{Package: "example.com/a"}},
	}

	require.NoError(t, w.Write(entries))
	assert.True(t, w.Written())

	b, ok := mem.File(Path)
	require.True(t, ok)
	assert.Equal(t, "example.com/b.B__PropertyRegistrar\nexample.com/a.A__PropertyRegistrar\n", string(b))

	created := mem.Created()
	require.Len(t, created, 1)
	assert.Equal(t, []decl.Origin{{Package: "example.com/b"}, {Package: "example.com/a"}}, created[0].Origins)

	err := w.Write(entries)
	assert.ErrorIs(t, err, ErrAlreadyWritten)
	assert.Len(t, mem.Created(), 1)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "META-INF/services/github.com/vk/propreg/pkg/registrar.Registrar", Path)
}

type failingFiler struct {
	createErr error
	writeErr  error
	closeErr  error
	closed    *bool
}

func (f failingFiler) CreateSource(filer.SourceName, decl.Origin) (io.WriteCloser, error) {
	return nil, f.createErr
}

func (f failingFiler) CreateResource(string, ...decl.Origin) (io.WriteCloser, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return failingCloser{writeErr: f.writeErr, err: f.closeErr, closed: f.closed}, nil
}

func (f failingFiler) Created() []filer.Output { return nil }

type failingCloser struct {
	writeErr error
	err      error
	closed   *bool
}

func (c failingCloser) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return len(p), nil
}

func (c failingCloser) Close() error {
	if c.closed != nil {
		*c.closed = true
	}
	return c.err
}

func TestWriter_PropagatesFailures(t *testing.T) {
	boom := errors.New("disk full")
	entries := []Entry{{Registrar: "x.R"}}

	err := NewWriter(failingFiler{createErr: boom}).Write(entries)
	assert.ErrorIs(t, err, boom)

	err = NewWriter(failingFiler{closeErr: boom}).Write(entries)
	assert.ErrorIs(t, err, boom)
}

func TestWriter_ClosesOutputAfterFailedWrite(t *testing.T) {
	boom := errors.New("disk full")
	var closed bool

	err := NewWriter(failingFiler{writeErr: boom, closed: &closed}).Write([]Entry{{Registrar: "x.R"}})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to write manifest")
	assert.True(t, closed, "the filer must get the chance to discard the output")
}

func TestRead(t *testing.T) {
	input := "# generated\n\n  example.com/a.A__PropertyRegistrar  \nexample.com/b.B__PropertyRegistrar\n\n"

	names, err := Read(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/a.A__PropertyRegistrar", "example.com/b.B__PropertyRegistrar"}, names)
}
