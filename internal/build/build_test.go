package build

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/declid"
	"github.com/vk/propreg/internal/filer"
	"github.com/vk/propreg/internal/generator"
	"github.com/vk/propreg/internal/gosource"
	"github.com/vk/propreg/internal/manifest"
	"github.com/vk/propreg/internal/model"
	"github.com/vk/propreg/internal/scanner"
	"github.com/vk/propreg/internal/session"
	"github.com/vk/propreg/internal/testutil"
)

const marker = "example.com/prop.Property"

type staticLoader struct {
	units []*decl.Unit
}

func (l staticLoader) Load(context.Context, ...string) (*gosource.Result, error) {
	return &gosource.Result{Units: l.units}, nil
}

func unit(name string, fields ...*decl.Node) *decl.Unit {
	return &decl.Unit{
		Package:     "example.com/app",
		PackageName: "app",
		Root:        decl.Struct(name, fields...),
		Origin:      decl.Origin{Package: "example.com/app", Dir: "/mod/app", File: "/mod/app/app.go"},
	}
}

func newSession(t *testing.T, sc scanner.Interface, f filer.Filer) *session.Session {
	t.Helper()
	s, err := session.New(session.Options{
		Scanner:   sc,
		Generator: generator.New(generator.DefaultNaming(), "propreg test"),
		Filer:     f,
		Now:       func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
		Getenv:    func(string) string { return "" },
	})
	require.NoError(t, err)
	return s
}

func TestDriver_Run(t *testing.T) {
	ctx := testutil.Context(t, nil)
	mem := filer.NewMemory("/mod", "")
	sess := newSession(t, scanner.New(marker), mem)
	loader := staticLoader{units: []*decl.Unit{
		unit("A", decl.Field("X", marker)),
		unit("Plain", decl.Field("Name", "string")),
		unit("B", decl.Field("Y", marker)),
	}}

	res, err := New(loader).Run(ctx, sess, "./...")
	require.NoError(t, err)

	// Round 1 generates, round 2 sees the generated registrars, round 3 is
	// the last one.
	assert.Equal(t, 3, res.Rounds)
	// Each generated file adds its registrar type and its init function.
	assert.Equal(t, 7, res.Roots)
	assert.Equal(t, 3, sess.Passes())
	assert.True(t, sess.Finished())

	b, ok := mem.File(manifest.Path)
	require.True(t, ok)
	assert.Equal(t, "example.com/app.A__PropertyRegistrar\nexample.com/app.B__PropertyRegistrar\n", string(b))
}

func TestDriver_RunWithoutProperties(t *testing.T) {
	ctx := testutil.Context(t, nil)
	mem := filer.NewMemory("/mod", "")
	sess := newSession(t, scanner.New(marker), mem)

	res, err := New(staticLoader{units: []*decl.Unit{unit("Plain")}}).Run(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rounds)
	assert.Empty(t, mem.Created())
}

// everythingScanner registers a property on every struct root, so every
// generated registrar causes another one.
type everythingScanner struct{}

func (everythingScanner) Scan(u *decl.Unit) *model.CompileUnit {
	if u.Root.Kind != decl.KindStruct {
		return model.NewCompileUnit(u, nil, nil)
	}
	id := declid.New(u.Package, u.Root.Name, "X")
	return model.NewCompileUnit(u, []model.PropertyRegistration{model.NewPropertyRegistration(id)}, nil)
}

func TestDriver_TooManyRounds(t *testing.T) {
	ctx := testutil.Context(t, nil)
	sess := newSession(t, everythingScanner{}, filer.NewMemory("/mod", ""))

	_, err := New(staticLoader{units: []*decl.Unit{unit("A")}}, WithMaxRounds(3)).Run(ctx, sess)

	require.ErrorIs(t, err, ErrTooManyRounds)
	assert.False(t, sess.Finished())
}

const e2eConfig = `package config

import "example.com/app/prop"

type AppConfig struct {
	PORT prop.Property[int]
	HOST prop.Property[string]
	Sub  struct {
		TIMEOUT prop.Property[int]
	}
}

type Plain struct {
	Name string
}
`

const e2eServer = `package server

import "example.com/app/prop"

var Server = struct {
	Addr prop.Property[string]
}{
	Addr: prop.New(":8080", "listen address"),
}
`

func TestDriver_EndToEnd(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir := testutil.NewModule(t, map[string]string{
		"config/config.go": e2eConfig,
		"server/server.go": e2eServer,
	})
	ctx := testutil.Context(t, nil)
	disk := filer.NewDisk(dir, "resources")
	sess, err := session.New(session.Options{
		Scanner:   scanner.New(testutil.Marker),
		Generator: generator.New(generator.DefaultNaming(), "propreg test", generator.WithRuntimeImport(testutil.RegistrarImport)),
		Filer:     disk,
	})
	require.NoError(t, err)

	loader := &gosource.Loader{Dir: dir, SkipSuffix: "_propreg.go", Env: testutil.GoEnv()}
	_, err = New(loader).Run(ctx, sess, "./...")
	require.NoError(t, err)

	src := testutil.ReadFile(t, dir, "config/app_config_propreg.go")
	assert.Contains(t, src, `"example.com/app/config.AppConfig.Sub.TIMEOUT"`)
	testutil.AssertFileExists(t, dir, "server/server_propreg.go")
	testutil.AssertNoFile(t, dir, "config/plain_propreg.go")

	names, err := manifest.Read(strings.NewReader(testutil.ReadFile(t, dir, "resources/"+manifest.Path)))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"example.com/app/config.AppConfig__PropertyRegistrar",
		"example.com/app/server.Server__PropertyRegistrar",
	}, names)

	// A second build over the generated tree loads the registrars' package
	// without type errors and yields the same manifest.
	disk2 := filer.NewDisk(dir, "resources")
	sess2, err := session.New(session.Options{
		Scanner:   scanner.New(testutil.Marker),
		Generator: generator.New(generator.DefaultNaming(), "propreg test", generator.WithRuntimeImport(testutil.RegistrarImport)),
		Filer:     disk2,
	})
	require.NoError(t, err)
	_, err = New(loader).Run(ctx, sess2, "./...")
	require.NoError(t, err)
	assert.Equal(t, sess.Registrars()[0].Registrar, sess2.Registrars()[0].Registrar)
}
