package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/testutil"
)

func TestFindDirsWithExtension(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"main.go":                 "package main",
		"config/config.go":        "package config",
		"config/sub/README.md":    "docs",
		"server/http/handler.go":  "package http",
		".git/hooks/hook.go":      "package hooks",
		"_examples/demo/demo.go":  "package demo",
		"testdata/fixture/f.go":   "package fixture",
		"vendor/x.org/lib/lib.go": "package lib",
	})

	dirs, err := FindDirsWithExtension(root, ".go")
	require.NoError(t, err)
	require.Equal(t, []string{
		root,
		filepath.Join(root, "config"),
		filepath.Join(root, "server", "http"),
	}, dirs)
}

func TestFindDirsWithExtension_EmptyExtensionPanics(t *testing.T) {
	require.Panics(t, func() { _, _ = FindDirsWithExtension(t.TempDir(), "") })
}
