// Package registrar is the runtime side of propreg.
//
// Every registrar generated by propreg implements Registrar and adds itself
// to the default registry from an init function. A program finds its
// configuration properties by reading the discovery manifest with Load,
// which resolves each listed name against the registry, instead of scanning
// types with reflection.
package registrar

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Registration describes one declared property.
type Registration struct {
	// CanonicalName is the full dotted name, e.g.
	// "example.com/app/config.AppConfig.Sub.TIMEOUT".
	CanonicalName string
	// RootName is the canonical name of the top-level declaration.
	RootName string
	// ParentName is the canonical name of the enclosing declaration.
	ParentName string
}

// Registrar lists the properties of one top-level declaration.
type Registrar interface {
	RootName() string
	Registrations() []Registration
}

// Registry holds registrars by fully-qualified generated type name.
type Registry struct {
	mu         sync.RWMutex
	registrars map[string]Registrar
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{registrars: make(map[string]Registrar)}
}

// Register adds r under name. It panics when name is empty or already taken;
// both can only happen through a broken build.
func (reg *Registry) Register(name string, r Registrar) {
	if name == "" {
		panic("registrar: Register called with an empty name")
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.registrars[name]; exists {
		panic(fmt.Sprintf("registrar: %s registered twice", name))
	}
	reg.registrars[name] = r
}

// Lookup returns the registrar registered under name.
func (reg *Registry) Lookup(name string) (Registrar, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.registrars[name]
	return r, ok
}

// Names returns every registered name, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.registrars))
	for name := range reg.registrars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every registration belongs to the root its registrar
// claims and that no canonical name is declared twice.
func (reg *Registry) Validate() error {
	var errs []string
	owner := make(map[string]string)

	for _, name := range reg.Names() {
		r, _ := reg.Lookup(name)
		root := r.RootName()
		for _, p := range r.Registrations() {
			if p.RootName != root {
				errs = append(errs, fmt.Sprintf("registrar '%s': property '%s' has root '%s', want '%s'", name, p.CanonicalName, p.RootName, root))
			}
			if !strings.HasPrefix(p.CanonicalName, p.ParentName+".") {
				errs = append(errs, fmt.Sprintf("registrar '%s': property '%s' is not nested in '%s'", name, p.CanonicalName, p.ParentName))
			}
			if prev, dup := owner[p.CanonicalName]; dup {
				errs = append(errs, fmt.Sprintf("property '%s' is declared by both '%s' and '%s'", p.CanonicalName, prev, name))
				continue
			}
			owner[p.CanonicalName] = name
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

var defaultRegistry = New()

// Default returns the process-wide registry generated registrars add
// themselves to.
func Default() *Registry { return defaultRegistry }

// Register adds r to the default registry. Generated code calls it from init.
func Register(name string, r Registrar) { defaultRegistry.Register(name, r) }

// Lookup finds a registrar in the default registry.
func Lookup(name string) (Registrar, bool) { return defaultRegistry.Lookup(name) }

// Properties flattens the registrations of rs, keeping their order.
func Properties(rs []Registrar) []Registration {
	var out []Registration
	for _, r := range rs {
		out = append(out, r.Registrations()...)
	}
	return slices.Clip(out)
}
