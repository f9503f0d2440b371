package gosource

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/decl"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Loader loads Go packages and converts them to root units.
type Loader struct {
	// Dir is the directory patterns are resolved in, usually the module root.
	Dir string
	// SkipSuffix excludes generated files with this base name suffix from
	// the initial load; they are registrars of an earlier build.
	SkipSuffix string
	// Env is passed to the go command; nil means the current environment.
	Env []string
	// BuildFlags are passed to the go command, e.g. "-tags=prod".
	BuildFlags []string
}

// Package describes one loaded package.
type Package struct {
	Path  string
	Name  string
	Dir   string
	Files []string
}

// Result is the outcome of a load.
type Result struct {
	Packages []Package
	// Units holds every root unit in package path order, then file order,
	// then declaration order.
	Units []*decl.Unit
}

// Load loads the packages matching patterns.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        l.Dir,
		Env:        l.Env,
		BuildFlags: l.BuildFlags,
		Fset:       token.NewFileSet(),
	}
	logger.Debug("Loading packages", "dir", l.Dir, "patterns", patterns)
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if err := packageErrors(pkgs); err != nil {
		return nil, err
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	res := &Result{}
	fields := make(map[*types.Var]string)
	var pending []*pendingUnit
	var resolvers []*resolver

	for _, pkg := range pkgs {
		p := Package{Path: pkg.PkgPath, Name: pkg.Name}
		for i, f := range pkg.Syntax {
			filename := pkg.Fset.Position(f.Package).Filename
			if i < len(pkg.CompiledGoFiles) {
				filename = pkg.CompiledGoFiles[i]
			}
			if p.Dir == "" {
				p.Dir = filepath.Dir(filename)
			}
			if l.skip(filename, f) {
				logger.Debug("Skipping generated file", "file", filename)
				continue
			}
			p.Files = append(p.Files, filename)

			r := &resolver{
				pkg:     pkg.PkgPath,
				pkgName: pkg.Name,
				fset:    pkg.Fset,
				info:    pkg.TypesInfo,
				imports: fileImports(f, pkg.TypesInfo),
				fields:  fields,
			}
			for _, pu := range r.fileUnits(f) {
				pending = append(pending, pu)
				resolvers = append(resolvers, r)
			}
		}
		res.Packages = append(res.Packages, p)
	}

	for i, pu := range pending {
		resolvers[i].resolve(pu)
		res.Units = append(res.Units, pu.unit)
	}
	logger.Debug("Loaded packages", "packages", len(res.Packages), "roots", len(res.Units))
	return res, nil
}

func (l *Loader) skip(filename string, f *ast.File) bool {
	if l.SkipSuffix == "" || !strings.HasSuffix(filepath.Base(filename), l.SkipSuffix) {
		return false
	}
	return ast.IsGenerated(f)
}

func packageErrors(pkgs []*packages.Package) error {
	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("failed to load packages:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ParseFile converts a single file without type information. It is used for
// files generated during a build, which the host has not compiled yet.
// Initializer references are not resolved.
func ParseFile(filename string, src any, pkgPath string) ([]*decl.Unit, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	r := &resolver{
		pkg:     pkgPath,
		pkgName: f.Name.Name,
		fset:    fset,
		imports: fileImports(f, nil),
	}
	var units []*decl.Unit
	for _, pu := range r.fileUnits(f) {
		units = append(units, pu.unit)
	}
	return units, nil
}
