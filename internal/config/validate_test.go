package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Default(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr []string
	}{
		{
			name:    "marker without type name",
			mutate:  func(s *Settings) { s.Marker = "example.com/prop" },
			wantErr: []string{`marker: "example.com/prop" must have the form importpath.TypeName`},
		},
		{
			name:    "no packages",
			mutate:  func(s *Settings) { s.Packages = nil },
			wantErr: []string{"packages: needs at least 1 entries"},
		},
		{
			name:    "separator with a dash",
			mutate:  func(s *Settings) { s.Naming.Separator = "-" },
			wantErr: []string{`naming.separator: "-" may only contain letters, digits and underscores`},
		},
		{
			name:    "empty separator",
			mutate:  func(s *Settings) { s.Naming.Separator = "" },
			wantErr: []string{"naming.separator: is required"},
		},
		{
			name: "neither prefix nor suffix",
			mutate: func(s *Settings) {
				s.Naming.Prefix = ""
				s.Naming.Suffix = ""
			},
			wantErr: []string{"naming: a prefix or a suffix is required"},
		},
		{
			name:    "test file suffix",
			mutate:  func(s *Settings) { s.Output.SourceSuffix = "_propreg_test.go" },
			wantErr: []string{"output.source_suffix: generated files cannot be test files"},
		},
		{
			name:    "non go suffix",
			mutate:  func(s *Settings) { s.Output.SourceSuffix = ".txt" },
			wantErr: []string{`output.source_suffix: ".txt" must end with ".go"`},
		},
		{
			name:    "unknown log level",
			mutate:  func(s *Settings) { s.Log.Level = "verbose" },
			wantErr: []string{`log.level: "verbose" must be one of [debug info warn error]`},
		},
		{
			name: "file exporter without file",
			mutate: func(s *Settings) {
				s.Trace.Exporter = "file"
				s.Trace.File = ""
			},
			wantErr: []string{"trace.file: is required when Exporter file"},
		},
		{
			name: "several problems at once",
			mutate: func(s *Settings) {
				s.Log.Format = "xml"
				s.Output.Ledger = ""
			},
			wantErr: []string{"log.format", "output.ledger: is required"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(s)
			err := Validate(s)
			require.Error(t, err)
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
