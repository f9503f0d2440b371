package gosource

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/testutil"
)

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
}

const loaderConfig = `package config

import "example.com/app/prop"

type AppConfig struct {
	PORT prop.Property[int]
	HOST prop.Property[string]
	Sub  struct {
		TIMEOUT prop.Property[int]
	}
}

var Defaults AppConfig

func init() {
	println(Defaults.PORT.Description)
}
`

const loaderMain = `package main

import "example.com/app/config"

var port = config.Defaults.HOST

func main() { _ = port }
`

const generatedRegistrar = `// Code generated by propreg test at 2025-01-01T00:00:00Z. DO NOT EDIT.

package config

type Old__PropertyRegistrar struct{}
`

func findUnit(t *testing.T, units []*decl.Unit, pkg, name string) *decl.Unit {
	t.Helper()
	for _, u := range units {
		if u.Package == pkg && u.Root.Name == name {
			return u
		}
	}
	t.Fatalf("unit %s.%s not found", pkg, name)
	return nil
}

func TestLoader_Load(t *testing.T) {
	requireGo(t)
	dir := testutil.NewModule(t, map[string]string{
		"config/config.go":      loaderConfig,
		"config/old_propreg.go": generatedRegistrar,
		"cmd/app/main.go":       loaderMain,
	})
	ctx := testutil.Context(t, nil)

	l := &Loader{Dir: dir, SkipSuffix: "_propreg.go", Env: testutil.GoEnv()}
	res, err := l.Load(ctx, "./...")
	require.NoError(t, err)

	var paths []string
	for _, p := range res.Packages {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{
		"example.com/app/cmd/app",
		"example.com/app/config",
		"example.com/app/prop",
		"example.com/app/registrar",
	}, paths)
	assert.Equal(t, []string{filepath.Join(dir, "config", "config.go")}, res.Packages[1].Files, "generated registrars are skipped")

	cfg := findUnit(t, res.Units, "example.com/app/config", "AppConfig")
	assert.Equal(t, "config", cfg.PackageName)
	assert.Equal(t, filepath.Join(dir, "config"), cfg.Origin.Dir)
	assert.Equal(t, 5, cfg.Origin.Line)
	require.Len(t, cfg.Root.Children, 3)
	assert.Equal(t, testutil.Marker, cfg.Root.Children[0].TypeName)
	assert.Equal(t, testutil.Marker, cfg.Root.Children[2].Children[0].TypeName)

	initUnit := findUnit(t, res.Units, "example.com/app/config", "init")
	assert.Equal(t, decl.KindInitializer, initUnit.Root.Kind)
	var markerRefs []decl.Ref
	for _, r := range initUnit.Root.Refs {
		if r.TypeName == testutil.Marker {
			markerRefs = append(markerRefs, r)
		}
	}
	require.Len(t, markerRefs, 1)
	assert.Equal(t, "example.com/app/config.AppConfig.PORT", markerRefs[0].Name)
	assert.Equal(t, 16, markerRefs[0].Line)

	port := findUnit(t, res.Units, "example.com/app/cmd/app", "port")
	require.Len(t, port.Root.Refs, 1)
	assert.Equal(t, testutil.Marker, port.Root.Refs[0].TypeName)
	assert.Contains(t, port.Root.Refs[0].Name, "HOST")
}

func TestLoader_LoadErrors(t *testing.T) {
	requireGo(t)
	dir := testutil.NewModule(t, map[string]string{
		"broken/broken.go": "package broken\n\nvar x int = \"not an int\"\n",
	})
	ctx := testutil.Context(t, nil)

	l := &Loader{Dir: dir, Env: testutil.GoEnv()}
	_, err := l.Load(ctx, "./broken")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load packages:\n- ")
}
