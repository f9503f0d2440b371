package filer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/decl"
)

func TestLedger_WriteAndRead(t *testing.T) {
	root := t.TempDir()
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	outputs := []Output{
		{
			Kind:    KindSource,
			Path:    "config/appconfig_propreg.go",
			Package: "example.com/app/config",
			Origins: []decl.Origin{{File: filepath.Join(root, "config", "config.go"), Line: 4}},
		},
		{Kind: KindResource, Path: "META-INF/services/cap", Origins: []decl.Origin{{Package: "example.com/app/config"}}},
	}

	l := NewLedger(root, "session-1", ts, outputs)
	path := filepath.Join(root, DefaultLedgerFile)
	require.NoError(t, l.Write(path))

	got, err := ReadLedger(path)
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.Session)
	assert.True(t, ts.Equal(got.Timestamp))
	require.Len(t, got.Outputs, 2)
	assert.Equal(t, []string{"config/config.go:4"}, got.Outputs[0].Origins)
	assert.Equal(t, []string{"example.com/app/config"}, got.Outputs[1].Origins)
	assert.Equal(t, []string{"config/appconfig_propreg.go"}, got.Paths(KindSource))
	assert.Len(t, got.Paths(""), 2)
}

func TestReadLedger_Missing(t *testing.T) {
	l, err := ReadLedger(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, l.Outputs)
}

func TestReadLedger_BadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultLedgerFile)
	require.NoError(t, os.WriteFile(path, []byte("version: 9\noutputs: []\n"), 0o644))

	_, err := ReadLedger(path)
	assert.ErrorContains(t, err, "unsupported version 9")
}

func TestLedger_StaleAndRemove(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "keep.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "old_propreg.go"), nil, 0o644))

	previous := &Ledger{Outputs: []LedgerEntry{
		{Path: "a/keep.go", Kind: KindSource},
		{Path: "a/old_propreg.go", Kind: KindSource},
		{Path: "a/gone_propreg.go", Kind: KindSource},
	}}
	current := &Ledger{Outputs: []LedgerEntry{{Path: "a/keep.go", Kind: KindSource}}}

	stale := previous.Stale(current)
	require.Len(t, stale, 2)

	removed, err := Remove(root, stale)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/old_propreg.go"}, removed)

	_, err = os.Stat(filepath.Join(root, "a", "keep.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "a", "old_propreg.go"))
	assert.True(t, os.IsNotExist(err))
}
