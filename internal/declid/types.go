// internal/declid/types.go
package declid

// Name is the structured representation of a canonical declaration name.
type Name struct {
	// Package is the import path of the declaring package. Empty for names
	// built outside of any package.
	Package string
	// Path holds the declaration names from the root declaration inward.
	Path []string
}

// New creates a name from a package path and declaration path segments.
func New(pkg string, path ...string) Name {
	return Name{Package: pkg, Path: append([]string(nil), path...)}
}
