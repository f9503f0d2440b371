package gosource

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/vk/propreg/internal/decl"
)

// resolver converts the declarations of one file.
type resolver struct {
	pkg     string
	pkgName string
	fset    *token.FileSet
	info    *types.Info
	imports imports
	// fields maps checked field variables to canonical names. It is shared by
	// every file of a load, so references across packages resolve too.
	fields map[*types.Var]string
}

// fileUnits converts the package-level declarations of f into root units.
// Initializer references are left pending: every file of a load must declare
// its fields before any reference can be named.
func (r *resolver) fileUnits(f *ast.File) []*pendingUnit {
	var out []*pendingUnit
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					if u := r.typeUnit(spec.(*ast.TypeSpec)); u != nil {
						out = append(out, u)
					}
				}
			case token.VAR:
				for _, spec := range d.Specs {
					out = append(out, r.varUnits(spec.(*ast.ValueSpec))...)
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name == "init" && d.Body != nil {
				out = append(out, &pendingUnit{
					unit: r.unit(decl.Initializer("init"), d.Name.Pos()),
					inits: []pendingInit{{body: d.Body}},
				})
			}
		}
	}
	return out
}

// pendingUnit is a converted unit whose initializer references have not been
// resolved yet.
type pendingUnit struct {
	unit  *decl.Unit
	inits []pendingInit
}

type pendingInit struct {
	// node is the initializer to attach refs to; nil means the root itself.
	node *decl.Node
	body ast.Node
}

func (r *resolver) unit(root *decl.Node, pos token.Pos) *decl.Unit {
	p := r.fset.Position(pos)
	return &decl.Unit{
		Package:     r.pkg,
		PackageName: r.pkgName,
		Root:        root,
		Origin: decl.Origin{
			Package: r.pkg,
			Dir:     filepath.Dir(p.Filename),
			File:    p.Filename,
			Line:    p.Line,
		},
	}
}

func (r *resolver) typeUnit(spec *ast.TypeSpec) *pendingUnit {
	if spec.Assign.IsValid() {
		// Aliases declare no new fields.
		return nil
	}
	switch t := spec.Type.(type) {
	case *ast.StructType:
		root := decl.Struct(spec.Name.Name, r.fieldNodes(t, []string{spec.Name.Name})...)
		return &pendingUnit{unit: r.unit(root, spec.Name.Pos())}
	case *ast.InterfaceType:
		return &pendingUnit{unit: r.unit(decl.Interface(spec.Name.Name), spec.Name.Pos())}
	default:
		return nil
	}
}

func (r *resolver) varUnits(spec *ast.ValueSpec) []*pendingUnit {
	st := anonymousStruct(spec)
	if st == nil {
		if len(spec.Values) == 0 {
			return nil
		}
		name := spec.Names[0].Name
		root := decl.Initializer(name)
		pu := &pendingUnit{unit: r.unit(root, spec.Names[0].Pos())}
		for _, v := range spec.Values {
			pu.inits = append(pu.inits, pendingInit{body: v})
		}
		return []*pendingUnit{pu}
	}

	var out []*pendingUnit
	for i, ident := range spec.Names {
		if ident.Name == "_" {
			continue
		}
		children := r.fieldNodes(st, []string{ident.Name})
		pu := &pendingUnit{}
		var value ast.Expr
		if i < len(spec.Values) {
			value = spec.Values[i]
		}
		if value != nil {
			initNode := decl.Initializer(ident.Name)
			children = append(children, initNode)
			pu.inits = append(pu.inits, pendingInit{node: initNode, body: value})
		}
		pu.unit = r.unit(decl.Struct(ident.Name, children...), ident.Pos())
		out = append(out, pu)
	}
	return out
}

// anonymousStruct returns the struct type of a variable declared with an
// anonymous struct type, either explicitly or through its composite literal.
func anonymousStruct(spec *ast.ValueSpec) *ast.StructType {
	if st, ok := spec.Type.(*ast.StructType); ok {
		return st
	}
	if spec.Type != nil || len(spec.Values) != len(spec.Names) || len(spec.Values) == 0 {
		return nil
	}
	lit, ok := spec.Values[0].(*ast.CompositeLit)
	if !ok {
		return nil
	}
	st, _ := lit.Type.(*ast.StructType)
	return st
}

// fieldNodes converts the fields of st. scope is the canonical path of st,
// used to name field variables for reference resolution.
func (r *resolver) fieldNodes(st *ast.StructType, scope []string) []*decl.Node {
	var out []*decl.Node
	for _, field := range st.Fields.List {
		names := field.Names
		if len(names) == 0 {
			// Embedded field: named after its type.
			names = []*ast.Ident{embeddedName(field.Type)}
			if names[0] == nil {
				continue
			}
		}
		for _, ident := range names {
			path := append(scope[:len(scope):len(scope)], ident.Name)
			r.declareField(ident, path)
			if nested, ok := field.Type.(*ast.StructType); ok {
				out = append(out, decl.Struct(ident.Name, r.fieldNodes(nested, path)...))
				continue
			}
			out = append(out, decl.Field(ident.Name, r.identity(field.Type)))
		}
	}
	return out
}

func embeddedName(expr ast.Expr) *ast.Ident {
	switch t := expr.(type) {
	case *ast.Ident:
		return t
	case *ast.SelectorExpr:
		return t.Sel
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return nil
	}
}

func (r *resolver) declareField(ident *ast.Ident, path []string) {
	if r.info == nil || r.fields == nil {
		return
	}
	if v, ok := r.info.Defs[ident].(*types.Var); ok && v.IsField() {
		r.fields[v] = decl.Qualify(r.pkg, strings.Join(path, "."))
	}
}

// resolve fills in the initializer references of pu.
func (r *resolver) resolve(pu *pendingUnit) {
	for _, in := range pu.inits {
		target := in.node
		if target == nil {
			target = pu.unit.Root
		}
		target.Refs = append(target.Refs, r.refs(in.body)...)
	}
}

// refs collects the field selections made inside n, in source order.
func (r *resolver) refs(n ast.Node) []decl.Ref {
	if r.info == nil {
		return nil
	}
	var out []decl.Ref
	ast.Inspect(n, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		s := r.info.Selections[sel]
		if s == nil || s.Kind() != types.FieldVal {
			return true
		}
		v, ok := s.Obj().(*types.Var)
		if !ok {
			return true
		}
		v = v.Origin()
		name, ok := r.fields[v]
		if !ok {
			name = types.ExprString(sel)
		}
		out = append(out, decl.Ref{
			Name:     name,
			TypeName: typeIdentity(v.Type()),
			Line:     r.fset.Position(sel.Sel.Pos()).Line,
		})
		return true
	})
	return out
}
