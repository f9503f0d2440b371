package scanner

import (
	"fmt"
	"strings"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/declid"
	"github.com/vk/propreg/internal/model"
)

// Interface is implemented by Scanner and Cached.
type Interface interface {
	Scan(unit *decl.Unit) *model.CompileUnit
}

// Scanner is stateless between calls and safe for concurrent use.
type Scanner struct {
	marker string
}

// New creates a scanner recognizing fields of the given marker type, written
// as "importpath.TypeName".
func New(marker string) *Scanner {
	return &Scanner{marker: marker}
}

// Marker returns the marker type identity the scanner matches.
func (s *Scanner) Marker() string { return s.marker }

// Scan walks unit and returns what it found. It never fails: structural
// problems are recorded as errors on the returned unit.
func (s *Scanner) Scan(unit *decl.Unit) *model.CompileUnit {
	v := &visitor{marker: s.marker, pkg: unit.Package}
	decl.Walk(unit.Root, v)
	return model.NewCompileUnit(unit, v.registrations, v.errors)
}

// visitor accumulates the findings of a single walk.
type visitor struct {
	marker        string
	pkg           string
	registrations []model.PropertyRegistration
	errors        []string
}

func (v *visitor) VisitStruct(*decl.Node, []string) bool    { return true }
func (v *visitor) VisitInterface(*decl.Node, []string) bool { return true }

func (v *visitor) VisitField(n *decl.Node, path []string) {
	if n.TypeName != v.marker {
		return
	}
	// A field can only be a property when it is declared inside something.
	if len(path) == 0 {
		return
	}
	id := declid.New(v.pkg, path...).Child(n.Name)
	v.registrations = append(v.registrations, model.NewPropertyRegistration(id))
}

func (v *visitor) VisitInitializer(n *decl.Node, path []string) {
	for _, ref := range n.Refs {
		if ref.TypeName != v.marker {
			continue
		}
		v.errors = append(v.errors, v.violation(n, path, ref))
	}
}

func (v *visitor) violation(n *decl.Node, path []string, ref decl.Ref) string {
	where := declid.New(v.pkg, append(path[:len(path):len(path)], n.Name)...).String()
	var sb strings.Builder
	fmt.Fprintf(&sb, "property %s is referenced from initializer %s", ref.Name, where)
	if ref.Line > 0 {
		fmt.Fprintf(&sb, " (line %d)", ref.Line)
	}
	sb.WriteString(": initializers may run before the property registry is populated," +
		" creating a circular initialization dependency")
	return sb.String()
}
