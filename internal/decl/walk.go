package decl

import "fmt"

// Visitor receives one call per node, selected by the node's kind. path holds
// the names of the enclosing declarations, outermost first; it is empty for
// the root. Returning false from VisitStruct or VisitInterface skips the
// node's children.
type Visitor interface {
	VisitStruct(n *Node, path []string) bool
	VisitInterface(n *Node, path []string) bool
	VisitField(n *Node, path []string)
	VisitInitializer(n *Node, path []string)
}

// Walk traverses the tree rooted at root depth-first, in declaration order.
func Walk(root *Node, v Visitor) {
	walk(root, nil, v)
}

func walk(n *Node, path []string, v Visitor) {
	if !Visit(n, path, v) {
		return
	}
	inner := append(path[:len(path):len(path)], n.Name)
	for _, child := range n.Children {
		walk(child, inner, v)
	}
}

// Visit dispatches a single node to the visitor method for its kind and
// reports whether the node's children should be visited.
func Visit(n *Node, path []string, v Visitor) bool {
	switch n.Kind {
	case KindStruct:
		return v.VisitStruct(n, path)
	case KindInterface:
		return v.VisitInterface(n, path)
	case KindField:
		v.VisitField(n, path)
		return false
	case KindInitializer:
		v.VisitInitializer(n, path)
		return false
	default:
		panic(fmt.Sprintf("decl: unknown node kind %s on %q", n.Kind, n.Name))
	}
}
