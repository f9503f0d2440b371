package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/app"
	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/gosource"
	"github.com/vk/propreg/internal/testutil"
)

const marker = "example.com/prop.Property"

type fakeLoader struct {
	units []*decl.Unit
}

func (l fakeLoader) Load(context.Context, ...string) (*gosource.Result, error) {
	return &gosource.Result{Units: l.units}, nil
}

func configUnits(dir string, extra ...*decl.Unit) fakeLoader {
	pkgDir := filepath.Join(dir, "config")
	origin := decl.Origin{Package: "example.com/app/config", Dir: pkgDir, File: filepath.Join(pkgDir, "config.go"), Line: 3}
	u := &decl.Unit{
		Package:     "example.com/app/config",
		PackageName: "config",
		Root:        decl.Struct("AppConfig", decl.Field("PORT", marker)),
		Origin:      origin,
	}
	return fakeLoader{units: append([]*decl.Unit{u}, extra...)}
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func run(t *testing.T, loader fakeLoader, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := Execute(context.Background(), args, out, &testutil.SafeBuffer{}, app.WithLoader(loader))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestExecute_Help(t *testing.T) {
	out, err := run(t, fakeLoader{}, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	for _, sub := range []string{"generate", "check", "clean", "watch", "manifest"} {
		assert.Contains(t, out, sub)
	}
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"generate", "--no-such-flag"}, wantMsg: "unknown flag"},
		{name: "unknown command", args: []string{"frobnicate"}, wantMsg: "unknown command"},
		{name: "bad log level", args: []string{"generate", "--log-level", "loud"}, wantMsg: "log.level"},
		{name: "bad marker", args: []string{"generate", "--marker", "nodot"}, wantMsg: "marker"},
		{name: "missing settings file", args: []string{"generate", "--config", "/does/not/exist.hcl"}, wantMsg: "settings file"},
		{name: "extra argument", args: []string{"generate", "now"}, wantMsg: "unknown command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, fakeLoader{}, append(tc.args, "--dir", tempDir(t))...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(t, err))
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestExecute_Lifecycle(t *testing.T) {
	dir := tempDir(t)
	loader := configUnits(dir)
	flags := []string{"--dir", dir, "--marker", marker}

	out, err := run(t, loader, append([]string{"generate"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "generated 1 registrar(s) in 3 round(s)")
	testutil.AssertFileExists(t, dir, "config/app_config_propreg.go")

	out, err = run(t, loader, append([]string{"check"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = run(t, loader, append([]string{"manifest"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/config.AppConfig__PropertyRegistrar\tconfig/app_config_propreg.go\n", out)

	out, err = run(t, loader, append([]string{"clean"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "removed\tconfig/app_config_propreg.go")
	testutil.AssertNoFile(t, dir, "config/app_config_propreg.go")

	out, err = run(t, loader, append([]string{"check"}, flags...)...)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "missing\tconfig/app_config_propreg.go")
}

func TestExecute_ClosesAppOnFailure(t *testing.T) {
	dir := tempDir(t)
	errW := &testutil.SafeBuffer{}

	// Nothing was generated yet, so check fails inside RunE.
	err := Execute(context.Background(),
		[]string{"check", "--dir", dir, "--marker", marker, "--log-level", "debug"},
		&bytes.Buffer{}, errW, app.WithLoader(configUnits(dir)))

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Equal(t, 1, strings.Count(errW.String(), "App closing."), "the app is closed exactly once")
}

func TestExecute_ClosesAppOnSuccess(t *testing.T) {
	dir := tempDir(t)
	errW := &testutil.SafeBuffer{}

	err := Execute(context.Background(),
		[]string{"generate", "--dir", dir, "--marker", marker, "--log-level", "debug"},
		&bytes.Buffer{}, errW, app.WithLoader(configUnits(dir)))

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errW.String(), "App closing."))
}

func TestExecute_Strict(t *testing.T) {
	dir := tempDir(t)
	violation := &decl.Unit{
		Package:     "example.com/app/config",
		PackageName: "config",
		Root: decl.Initializer("init", decl.Ref{
			Name:     "example.com/app/config.AppConfig.PORT",
			TypeName: marker,
			Line:     9,
		}),
		Origin: decl.Origin{Package: "example.com/app/config", Dir: filepath.Join(dir, "config")},
	}
	loader := configUnits(dir, violation)

	out, err := run(t, loader, "generate", "--dir", dir, "--marker", marker)
	require.NoError(t, err)
	assert.Contains(t, out, "violation\t")

	_, err = run(t, loader, "generate", "--dir", dir, "--marker", marker, "--strict")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "invalid property declarations")
}

func TestExecute_SettingsFile(t *testing.T) {
	dir := tempDir(t)
	testutil.WriteSettings(t, dir, `
marker = "example.com/prop.Property"

naming {
  prefix = "Gen"
  suffix = ""
}
`)
	out, err := run(t, configUnits(dir), "generate", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "generated 1 registrar(s)")
	testutil.AssertFileExists(t, dir, "config/app_config_propreg.go")
	assert.Contains(t, testutil.ReadFile(t, dir, "config/app_config_propreg.go"), "type GenAppConfig struct{}")
}
