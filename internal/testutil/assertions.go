package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogContains checks that captured log output contains every substring.
func AssertLogContains(t *testing.T, logs *SafeBuffer, substrings ...string) {
	t.Helper()
	out := logs.String()
	for _, s := range substrings {
		require.True(t, strings.Contains(out, s), "expected log output to contain %q\n%s", s, out)
	}
}

// AssertFileExists checks that a slash-separated path below dir exists.
func AssertFileExists(t *testing.T, dir, name string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err, "expected %s to exist", name)
}

// AssertNoFile checks that a slash-separated path below dir does not exist.
func AssertNoFile(t *testing.T, dir, name string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	require.True(t, os.IsNotExist(err), "expected %s not to exist", name)
}
