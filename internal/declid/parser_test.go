// internal/declid/parser_test.go
package declid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitQualified(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		expectErr  bool
		expectPkg  string
		expectName string
	}{
		{
			name:       "module path",
			raw:        "github.com/vk/propreg/pkg/prop.Property",
			expectPkg:  "github.com/vk/propreg/pkg/prop",
			expectName: "Property",
		},
		{
			name:       "single element path",
			raw:        "config.Property",
			expectPkg:  "config",
			expectName: "Property",
		},
		{
			name:      "error - empty",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - no dot",
			raw:       "Property",
			expectErr: true,
		},
		{
			name:      "error - trailing dot",
			raw:       "example.com/prop.",
			expectErr: true,
		},
		{
			name:      "error - invalid identifier",
			raw:       "example.com/prop.1Property",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pkg, name, err := SplitQualified(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectPkg, pkg)
			assert.Equal(t, tc.expectName, name)
		})
	}
}

func TestParseLocal(t *testing.T) {
	n, err := ParseLocal("example.com/app", "AppConfig.Sub")
	require.NoError(t, err)
	assert.True(t, n.Equal(New("example.com/app", "AppConfig", "Sub")))

	_, err = ParseLocal("p", "")
	assert.Error(t, err)

	_, err = ParseLocal("p", "A..B")
	assert.ErrorContains(t, err, "empty segment")

	_, err = ParseLocal("p", "A.b-c")
	assert.ErrorContains(t, err, "invalid path segment")
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("PORT"))
	assert.True(t, IsIdentifier("_x1"))
	assert.True(t, IsIdentifier("Größe"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1x"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("a$b"))
}
