// Package decl defines the declaration-tree view the scanner works on.
//
// A tree is made of tagged-variant nodes: the Kind field selects which of the
// remaining fields are meaningful, and Visit dispatches each node to the
// Visitor method for its kind. Frontends (see internal/gosource) build these
// trees from real source; tests build them by hand.
package decl

import (
	"fmt"
	"strings"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	// KindStruct is a struct-like declaration that may hold fields and
	// nested declarations.
	KindStruct Kind = iota
	// KindInterface is an interface-like declaration. It may hold nested
	// declarations but never fields.
	KindInterface
	// KindField is a field-like member with a declared type.
	KindField
	// KindInitializer is a block of code that runs while the program is
	// being initialized (a Go package init function or a package-level
	// variable initializer).
	KindInitializer
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindField:
		return "field"
	case KindInitializer:
		return "initializer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ref is a reference made from inside an initializer to a field.
type Ref struct {
	// Name is the canonical name of the referenced field when it is known,
	// otherwise the source text of the reference.
	Name string
	// TypeName is the declared type identity of the referenced field.
	TypeName string
	// Line is the source line of the reference, 0 when unknown.
	Line int
}

// Node is one declaration in the tree.
type Node struct {
	Kind Kind
	Name string

	// TypeName is the declared type identity of a KindField node, written as
	// "importpath.TypeName" with type arguments dropped.
	TypeName string

	// Children holds members and nested declarations of KindStruct and
	// KindInterface nodes, in declaration order.
	Children []*Node

	// Refs holds the field references made inside a KindInitializer node,
	// in source order.
	Refs []Ref
}

// Origin identifies the source a root unit came from. It is what generated
// outputs are attributed to.
type Origin struct {
	Package string
	Dir     string
	File    string
	Line    int
}

func (o Origin) String() string {
	if o.File == "" {
		return o.Package
	}
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// Unit is a root unit: one top-level declaration presented to a build pass.
type Unit struct {
	// Package is the import path of the package declaring the root. It may be
	// empty for trees built outside of any package.
	Package string
	// PackageName is the name in the package clause, "main" for commands.
	PackageName string
	Root        *Node
	Origin      Origin
}

// CanonicalName returns the package-qualified dotted name of the root.
func (u *Unit) CanonicalName() string {
	return Qualify(u.Package, u.Root.Name)
}

// Qualify joins a package import path and a dotted declaration path.
func Qualify(pkg, path string) string {
	if pkg == "" {
		return path
	}
	return pkg + "." + path
}

// Struct returns a KindStruct node.
func Struct(name string, children ...*Node) *Node {
	return &Node{Kind: KindStruct, Name: name, Children: children}
}

// Interface returns a KindInterface node.
func Interface(name string, children ...*Node) *Node {
	return &Node{Kind: KindInterface, Name: name, Children: children}
}

// Field returns a KindField node with the given declared type identity.
func Field(name, typeName string) *Node {
	return &Node{Kind: KindField, Name: name, TypeName: typeName}
}

// Initializer returns a KindInitializer node holding refs.
func Initializer(name string, refs ...Ref) *Node {
	return &Node{Kind: KindInitializer, Name: name, Refs: refs}
}

// Fingerprint returns a stable textual digest of the unit, used as a cache
// key. Two units with equal fingerprints scan to equal models.
func (u *Unit) Fingerprint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%s|", u.Package, u.PackageName, u.Origin)
	writeNode(&sb, u.Root)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	fmt.Fprintf(sb, "(%d %s %s", n.Kind, n.Name, n.TypeName)
	for _, r := range n.Refs {
		fmt.Fprintf(sb, " [%s %s %d]", r.Name, r.TypeName, r.Line)
	}
	for _, c := range n.Children {
		writeNode(sb, c)
	}
	sb.WriteByte(')')
}
