package testutil

import (
	"path/filepath"
	"testing"
)

// WriteSettings writes a propreg.hcl settings file into dir and returns its
// path.
func WriteSettings(t *testing.T, dir, content string) string {
	t.Helper()
	WriteFiles(t, dir, map[string]string{"propreg.hcl": content})
	return filepath.Join(dir, "propreg.hcl")
}
