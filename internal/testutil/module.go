package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ModulePath is the module path of temp modules created by NewModule.
const ModulePath = "example.com/app"

// Marker is the property marker type inside temp modules.
const Marker = ModulePath + "/prop.Property"

// RegistrarImport is the runtime package generated code imports inside temp
// modules.
const RegistrarImport = ModulePath + "/registrar"

// markerSource mirrors pkg/prop inside a temp module.
const markerSource = `package prop

type Property[T any] struct {
	Default     T
	Description string
}

func New[T any](def T, description string) Property[T] {
	return Property[T]{Default: def, Description: description}
}
`

// registrarSource is the part of pkg/registrar generated code compiles
// against.
const registrarSource = `package registrar

type Registration struct {
	CanonicalName string
	RootName      string
	ParentName    string
}

type Registrar interface {
	RootName() string
	Registrations() []Registration
}

var registered = map[string]Registrar{}

func Register(name string, r Registrar) { registered[name] = r }
`

// NewModule creates a self-contained Go module in a temp directory holding a
// marker package, a registrar runtime package and files. It returns the
// module root.
func NewModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	// Resolve symlinks so paths reported by the go command compare equal.
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	all := map[string]string{
		"go.mod":                 "module " + ModulePath + "\n\ngo 1.22\n",
		"prop/prop.go":           markerSource,
		"registrar/registrar.go": registrarSource,
	}
	for k, v := range files {
		all[k] = v
	}
	WriteFiles(t, dir, all)
	return dir
}

// GoEnv is the environment temp modules are loaded with: no workspace, no
// network.
func GoEnv() []string {
	return append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOPROXY=off")
}
