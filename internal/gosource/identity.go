package gosource

import (
	"go/ast"
	"go/types"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// imports maps the names a file uses for its imports to import paths.
type imports struct {
	byName map[string]string
	// dot holds dot-imported paths; identifiers not declared in the package
	// may come from any of them.
	dot []string
}

// fileImports reads the import block of f. info may be nil, in which case the
// package name of a non-renamed import is guessed from its path.
func fileImports(f *ast.File, info *types.Info) imports {
	im := imports{byName: make(map[string]string)}
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case info != nil:
			if pn := info.PkgNameOf(spec); pn != nil {
				name = pn.Name()
			}
		}
		if name == "" {
			name = guessPackageName(p)
		}
		switch name {
		case "_":
		case ".":
			im.dot = append(im.dot, p)
		default:
			im.byName[name] = p
		}
	}
	return im
}

var gopkgVersion = regexp.MustCompile(`\.v[0-9]+$`)

// guessPackageName applies the go tool's convention: the last path element,
// skipping a major version suffix and dropping a "go-" prefix.
func guessPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(importPath))
	}
	base = gopkgVersion.ReplaceAllString(base, "")
	base = strings.TrimPrefix(base, "go-")
	return strings.NewReplacer("-", "_", ".", "_").Replace(base)
}

// identity returns the declared type identity of a field type expression.
func (r *resolver) identity(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		if r.info != nil {
			if tn, ok := r.info.Uses[t].(*types.TypeName); ok {
				if tn.Pkg() == nil {
					return tn.Name()
				}
				return tn.Pkg().Path() + "." + tn.Name()
			}
		}
		if types.Universe.Lookup(t.Name) != nil {
			return t.Name
		}
		if r.pkg == "" {
			return t.Name
		}
		return r.pkg + "." + t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if p, ok := r.imports.byName[x.Name]; ok {
				return p + "." + t.Sel.Name
			}
		}
		return types.ExprString(t)
	case *ast.IndexExpr:
		return r.identity(t.X)
	case *ast.IndexListExpr:
		return r.identity(t.X)
	case *ast.ParenExpr:
		return r.identity(t.X)
	case *ast.StarExpr:
		return "*" + r.identity(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + r.identity(t.Elt)
		}
		return "[" + types.ExprString(t.Len) + "]" + r.identity(t.Elt)
	case *ast.MapType:
		return "map[" + r.identity(t.Key) + "]" + r.identity(t.Value)
	default:
		return types.ExprString(expr)
	}
}

// typeIdentity returns the identity of a checked type the same way identity
// does for syntax: the defining type name, type arguments dropped.
func typeIdentity(t types.Type) string {
	switch t := t.(type) {
	case *types.Named:
		return objectIdentity(t.Origin().Obj())
	case *types.Alias:
		return objectIdentity(t.Obj())
	case *types.Pointer:
		return "*" + typeIdentity(t.Elem())
	case *types.Slice:
		return "[]" + typeIdentity(t.Elem())
	case *types.Map:
		return "map[" + typeIdentity(t.Key()) + "]" + typeIdentity(t.Elem())
	default:
		return t.String()
	}
}

func objectIdentity(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}
