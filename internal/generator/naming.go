package generator

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/declid"
)

// Naming is the scheme generated type and file names are derived with:
// Prefix + owner path joined by Separator + Suffix.
type Naming struct {
	Prefix     string
	Separator  string
	Suffix     string
	FileSuffix string
}

// DefaultNaming returns the scheme used when nothing is configured.
func DefaultNaming() Naming {
	return Naming{
		Prefix:     "",
		Separator:  "__",
		Suffix:     "__PropertyRegistrar",
		FileSuffix: "_propreg.go",
	}
}

// Validate checks that every name the scheme produces is a Go identifier and
// that generated files are Go source files.
func (n Naming) Validate() error {
	for _, part := range []struct{ name, value string }{
		{"prefix", n.Prefix},
		{"separator", n.Separator},
		{"suffix", n.Suffix},
	} {
		if part.value == "" {
			continue
		}
		if !declid.IsIdentifier("X" + part.value) {
			return fmt.Errorf("naming %s %q may only contain letters, digits and underscores", part.name, part.value)
		}
	}
	if n.Separator == "" {
		return fmt.Errorf("naming separator cannot be empty")
	}
	if n.Prefix == "" && n.Suffix == "" {
		return fmt.Errorf("naming needs a prefix or a suffix to keep generated names apart from declared ones")
	}
	if n.Prefix != "" && unicode.IsDigit(rune(n.Prefix[0])) {
		return fmt.Errorf("naming prefix %q cannot start with a digit", n.Prefix)
	}
	if !strings.HasSuffix(n.FileSuffix, ".go") || strings.HasSuffix(n.FileSuffix, "_test.go") {
		return fmt.Errorf("naming file suffix %q must end in .go and must not be a test file", n.FileSuffix)
	}
	return nil
}

// Name is the identity a registrar is generated under.
type Name struct {
	// Package is the import path of the declaring package.
	Package string
	// Type is the generated type's simple name.
	Type string
	// File is the generated file's base name.
	File string
}

// FullName returns the fully-qualified type name listed in the manifest.
func (n Name) FullName() string {
	return decl.Qualify(n.Package, n.Type)
}

// typeName applies the scheme to a dotted owner path.
func (n Naming) typeName(owner string) string {
	return n.Prefix + strings.ReplaceAll(owner, ".", n.Separator) + n.Suffix
}

// fileName derives a lower-case file name from a dotted owner path. An owner
// that reads back from its snake_case form, such as AppConfig, gets that form
// (app_config). Any other owner (config, HTTPServer, Foo_Bar, Outer.Inner)
// gets its lower-cased text followed by "__" and the hex mask of its
// upper-case positions, so distinct owners never share a file name, even on
// case-insensitive file systems.
func (n Naming) fileName(owner string) string {
	if s := snake(owner); !strings.Contains(owner, ".") && camel(s) == owner {
		return s + n.FileSuffix
	}

	mask := new(big.Int)
	for i, r := range []rune(owner) {
		if unicode.IsUpper(r) {
			mask.SetBit(mask, i, 1)
		}
	}
	lower := strings.ToLower(strings.ReplaceAll(owner, ".", "-"))
	return lower + "__" + mask.Text(16) + n.FileSuffix
}

// camel inverts snake for owners made of capitalized words.
func camel(s string) string {
	var sb strings.Builder
	for _, part := range strings.Split(s, "_") {
		rs := []rune(part)
		if len(rs) == 0 {
			continue
		}
		sb.WriteRune(unicode.ToUpper(rs[0]))
		sb.WriteString(string(rs[1:]))
	}
	return sb.String()
}

func snake(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.ReplaceAll(sb.String(), "__", "_")
}
