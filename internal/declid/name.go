// internal/declid/name.go
package declid

import (
	"slices"
	"strings"
)

// String serializes the name into its canonical dotted representation.
func (n Name) String() string {
	local := n.Local()
	if n.Package == "" {
		return local
	}
	if local == "" {
		return n.Package
	}
	return n.Package + "." + local
}

// Local returns the declaration path without the package qualifier.
func (n Name) Local() string {
	return strings.Join(n.Path, ".")
}

// Child returns a new name with seg appended. The receiver is not modified.
func (n Name) Child(seg string) Name {
	path := make([]string, len(n.Path), len(n.Path)+1)
	copy(path, n.Path)
	return Name{Package: n.Package, Path: append(path, seg)}
}

// Parent returns the name of the enclosing declaration. The parent of a root
// name is the zero-path name of its package.
func (n Name) Parent() Name {
	if len(n.Path) == 0 {
		return n
	}
	return Name{Package: n.Package, Path: slices.Clone(n.Path[:len(n.Path)-1])}
}

// Root returns the name of the outermost declaration.
func (n Name) Root() Name {
	if len(n.Path) == 0 {
		return n
	}
	return Name{Package: n.Package, Path: []string{n.Path[0]}}
}

// Equal checks for deep equality between two names.
func (n Name) Equal(other Name) bool {
	return n.Package == other.Package && slices.Equal(n.Path, other.Path)
}

// IsZero reports whether the name has neither a package nor a path.
func (n Name) IsZero() bool {
	return n.Package == "" && len(n.Path) == 0
}
