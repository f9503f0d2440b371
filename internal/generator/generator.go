package generator

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"regexp"
	"text/template"
	"time"

	"github.com/vk/propreg/internal/model"
)

// ErrEmptyUnit is returned for a unit without registrations. Callers are
// expected to check HasRegistrations first.
var ErrEmptyUnit = errors.New("compile unit has no registrations")

// RuntimeImport is the default import path of the package generated code
// registers with.
const RuntimeImport = "github.com/vk/propreg/pkg/registrar"

// Generator renders registrars for one naming scheme and tool identity.
type Generator struct {
	naming        Naming
	tool          string
	runtimeImport string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRuntimeImport makes generated code register with the package at path
// instead of RuntimeImport. The package must provide Registration and
// Register with the same shape.
func WithRuntimeImport(path string) Option {
	return func(g *Generator) {
		if path != "" {
			g.runtimeImport = path
		}
	}
}

// New creates a generator. tool identifies the generating program in the
// provenance line of every file, e.g. "propreg v1.2.0".
func New(naming Naming, tool string, opts ...Option) *Generator {
	g := &Generator{naming: naming, tool: tool, runtimeImport: RuntimeImport}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Naming returns the scheme names are derived with.
func (g *Generator) Naming() Naming { return g.naming }

// Name returns the identity the registrar for cu is generated under.
func (g *Generator) Name(cu *model.CompileUnit) Name {
	return Name{
		Package: cu.Package(),
		Type:    g.naming.typeName(cu.LocalName()),
		File:    g.naming.fileName(cu.LocalName()),
	}
}

type templateData struct {
	Tool          string
	Timestamp     string
	PackageName   string
	RuntimeImport string
	TypeName      string
	FullName      string
	RootName      string
	LocalName     string
	Registrations []model.PropertyRegistration
}

// Generate renders the registrar for cu, stamped with ts.
func (g *Generator) Generate(cu *model.CompileUnit, ts time.Time) (*model.RegistrarArtifact, error) {
	if !cu.HasRegistrations() {
		return nil, fmt.Errorf("cannot generate registrar for %s: %w", cu.RootName(), ErrEmptyUnit)
	}
	name := g.Name(cu)

	pkgName := cu.PackageName()
	if pkgName == "" {
		return nil, fmt.Errorf("cannot generate registrar for %s: package name is unknown", cu.RootName())
	}

	data := templateData{
		Tool:          g.tool,
		Timestamp:     ts.UTC().Format(time.RFC3339),
		PackageName:   pkgName,
		RuntimeImport: g.runtimeImport,
		TypeName:      name.Type,
		FullName:      name.FullName(),
		RootName:      cu.RootName(),
		LocalName:     cu.LocalName(),
		Registrations: cu.Registrations(),
	}

	var buf bytes.Buffer
	if err := registrarTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render registrar for %s: %w", cu.RootName(), err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format registrar for %s: %w", cu.RootName(), err)
	}

	return model.NewRegistrarArtifact(name.Package, name.Type, name.File, cu, ts, src), nil
}

var provenance = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.\n`)

// StripProvenance removes the leading "Code generated" line, so outputs of
// two builds can be compared regardless of when they ran.
func StripProvenance(src []byte) []byte {
	return provenance.ReplaceAll(src, nil)
}

// IsGenerated reports whether src starts with a provenance line.
func IsGenerated(src []byte) bool {
	return provenance.Match(src)
}

var registrarTemplate = template.Must(template.New("registrar").Parse(`// Code generated by {{.Tool}} at {{.Timestamp}}. DO NOT EDIT.

package {{.PackageName}}

import propreg "{{.RuntimeImport}}"

// {{.TypeName}} lists the configuration properties declared by {{.LocalName}}.
type {{.TypeName}} struct{}

// RootName implements registrar.Registrar.
func ({{.TypeName}}) RootName() string {
	return {{printf "%q" .RootName}}
}

// Registrations implements registrar.Registrar.
func ({{.TypeName}}) Registrations() []propreg.Registration {
	return []propreg.Registration{
{{- range .Registrations}}
		{
			CanonicalName: {{printf "%q" .CanonicalName}},
			RootName:      {{printf "%q" .RootName}},
			ParentName:    {{printf "%q" .ParentName}},
		},
{{- end}}
	}
}

func init() {
	propreg.Register({{printf "%q" .FullName}}, {{.TypeName}}{})
}
`))
