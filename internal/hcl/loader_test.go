package hcl

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/propreg/internal/config"
	"github.com/vk/propreg/internal/testutil"
)

func TestLoader_AppliesFileOverBase(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSettings(t, dir, `
marker   = "example.com/app/prop.Property"
packages = ["./cmd/...", "./internal/..."]
strict   = true

naming {
  prefix = "Gen"
  suffix = ""
}

output {
  resource_dir = "build/resources"
}

log {
  level  = "debug"
  format = "json"
}
`)
	base := config.Default()
	s, err := NewLoader("propreg", "dev").Load(testutil.Context(t, nil), path, base)
	require.NoError(t, err)

	assert.Equal(t, "example.com/app/prop.Property", s.Marker)
	assert.Equal(t, []string{"./cmd/...", "./internal/..."}, s.Packages)
	assert.True(t, s.Strict)
	assert.Equal(t, "Gen", s.Naming.Prefix)
	assert.Equal(t, "", s.Naming.Suffix)
	assert.Equal(t, "__", s.Naming.Separator, "unset attributes keep the base value")
	assert.Equal(t, "build/resources", s.Output.ResourceDir)
	assert.Equal(t, config.DefaultSourceSuffix, s.Output.SourceSuffix)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)

	assert.Equal(t, []string{"./..."}, base.Packages, "base must not be modified")
	assert.Equal(t, "info", base.Log.Level)
}

func TestLoader_EvalContext(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSettings(t, dir, `
marker = "example.com/${env("PROPREG_APP")}/prop.Property"

trace {
  enabled = true
  file    = "${tool.name}-${tool.version}.jsonl"
}
`)
	env := map[string]string{"PROPREG_APP": "shop"}
	l := NewLoader("propreg", "1.2.3", WithGetenv(func(k string) string { return env[k] }))

	s, err := l.Load(testutil.Context(t, nil), path, config.Default())
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop/prop.Property", s.Marker)
	assert.True(t, s.Trace.Enabled)
	assert.Equal(t, "propreg-1.2.3.jsonl", s.Trace.File)
}

func TestLoader_RelativeDirResolvesAgainstFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSettings(t, dir, `dir = "module"`)

	s, err := NewLoader("propreg", "dev").Load(testutil.Context(t, nil), path, config.Default())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "module"), s.Dir)
}

func TestLoader_Errors(t *testing.T) {
	ctx := testutil.Context(t, nil)
	l := NewLoader("propreg", "dev")

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load(ctx, filepath.Join(t.TempDir(), "propreg.hcl"), config.Default())
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("syntax error", func(t *testing.T) {
		path := testutil.WriteSettings(t, t.TempDir(), `marker = `)
		_, err := l.Load(ctx, path, config.Default())
		require.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		path := testutil.WriteSettings(t, t.TempDir(), `markr = "x.Y"`)
		_, err := l.Load(ctx, path, config.Default())
		require.ErrorContains(t, err, "failed to decode HCL file")
		require.ErrorContains(t, err, "markr")
	})

	t.Run("wrong type", func(t *testing.T) {
		path := testutil.WriteSettings(t, t.TempDir(), `strict = "sometimes"`)
		_, err := l.Load(ctx, path, config.Default())
		require.ErrorContains(t, err, "failed to decode HCL file")
	})
}
