// internal/declid/parser.go
package declid

import (
	"fmt"
	"strings"
	"unicode"
)

// SplitQualified splits a package-qualified type name such as
// "github.com/vk/propreg/pkg/prop.Property" into its import path and type
// name. The type name is the part after the last dot.
func SplitQualified(qualified string) (pkg, name string, err error) {
	if qualified == "" {
		return "", "", fmt.Errorf("qualified name cannot be empty")
	}
	i := strings.LastIndex(qualified, ".")
	if i <= 0 || i == len(qualified)-1 {
		return "", "", fmt.Errorf("qualified name %q must have the form importpath.Name", qualified)
	}
	pkg, name = qualified[:i], qualified[i+1:]
	if strings.ContainsAny(pkg, " \t\n") {
		return "", "", fmt.Errorf("invalid import path %q in %q", pkg, qualified)
	}
	if !IsIdentifier(name) {
		return "", "", fmt.Errorf("invalid type name %q in %q", name, qualified)
	}
	return pkg, name, nil
}

// ParseLocal parses a dotted declaration path within pkg, e.g.
// ParseLocal("example.com/app", "AppConfig.Sub").
func ParseLocal(pkg, local string) (Name, error) {
	if local == "" {
		return Name{}, fmt.Errorf("declaration path cannot be empty")
	}

	n := Name{Package: pkg}
	for _, seg := range strings.Split(local, ".") {
		if seg == "" {
			return Name{}, fmt.Errorf("declaration path %q contains empty segment", local)
		}
		if !IsIdentifier(seg) {
			return Name{}, fmt.Errorf("invalid path segment %q in %q", seg, local)
		}
		n.Path = append(n.Path, seg)
	}
	return n, nil
}

// IsIdentifier reports whether s is a valid Go identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
