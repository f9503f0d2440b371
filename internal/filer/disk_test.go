package filer

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/decl"
)

func writeAll(t *testing.T, w io.WriteCloser, content string) {
	t.Helper()
	_, err := io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestDisk_CreateSource(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "config")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))

	d := NewDisk(root, "resources")
	origin := decl.Origin{Package: "example.com/app/config", Dir: pkgDir, File: filepath.Join(pkgDir, "config.go"), Line: 7}
	name := SourceName{Package: "example.com/app/config", Type: "AppConfig__PropertyRegistrar", File: "appconfig_propreg.go"}

	w, err := d.CreateSource(name, origin)
	require.NoError(t, err)

	// Nothing is visible until Close.
	_, err = os.Stat(filepath.Join(pkgDir, "appconfig_propreg.go"))
	assert.True(t, os.IsNotExist(err))

	writeAll(t, w, "package config\n")

	b, err := os.ReadFile(filepath.Join(pkgDir, "appconfig_propreg.go"))
	require.NoError(t, err)
	assert.Equal(t, "package config\n", string(b))

	entries, err := os.ReadDir(pkgDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be renamed away")

	created := d.Created()
	require.Len(t, created, 1)
	assert.Equal(t, KindSource, created[0].Kind)
	assert.Equal(t, "config/appconfig_propreg.go", created[0].Path)
	assert.Equal(t, []decl.Origin{origin}, created[0].Origins)
}

func TestDisk_CreateResource(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root, "resources")
	origins := []decl.Origin{{Package: "a"}, {Package: "b"}}

	w, err := d.CreateResource("META-INF/services/x.Registrar", origins...)
	require.NoError(t, err)
	writeAll(t, w, "a.R\nb.R\n")

	b, err := os.ReadFile(filepath.Join(root, "resources", "META-INF", "services", "x.Registrar"))
	require.NoError(t, err)
	assert.Equal(t, "a.R\nb.R\n", string(b))

	created := d.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "resources/META-INF/services/x.Registrar", created[0].Path)
	assert.Equal(t, origins, created[0].Origins)
}

func TestDisk_RefusesDuplicateOutput(t *testing.T) {
	d := NewDisk(t.TempDir(), "")

	w, err := d.CreateResource("manifest")
	require.NoError(t, err)
	writeAll(t, w, "x\n")

	_, err = d.CreateResource("manifest")
	require.ErrorIs(t, err, ErrExists)
	assert.Len(t, d.Created(), 1)
}

func TestDisk_OverwritesPreviousBuildOutput(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "manifest")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))

	w, err := NewDisk(root, "").CreateResource("manifest")
	require.NoError(t, err)
	writeAll(t, w, "new\n")

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(b))
}

func TestDisk_FailedWriteLeavesNothingBehind(t *testing.T) {
	root := t.TempDir()
	w, err := NewDisk(root, "").CreateResource("manifest")
	require.NoError(t, err)

	// Swap in a read-only handle on the same temp file so writes fail
	// while Close still succeeds.
	f := w.(*atomicFile)
	ro, err := os.Open(f.tmp.Name())
	require.NoError(t, err)
	require.NoError(t, f.tmp.Close())
	f.tmp = ro

	_, err = io.WriteString(w, "partial\n")
	require.Error(t, err)
	_, err = io.WriteString(w, "more\n")
	require.Error(t, err, "later writes keep failing")

	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the target nor the temp file may remain")
}
