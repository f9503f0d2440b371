package registrar

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/vk/propreg/internal/manifest"
)

// ManifestPath is where Load looks for the manifest inside a file system.
const ManifestPath = manifest.Path

// MissingError lists manifest entries with no registered registrar, which
// means the package that declares them is not linked into the program.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("registrars listed in the manifest are not linked:\n- %s", strings.Join(e.Names, "\n- "))
}

// Load resolves every name in the manifest read from r against reg. Resolved
// registrars are returned in manifest order even when some are missing; the
// error is then a *MissingError.
func (reg *Registry) Load(r io.Reader) ([]Registrar, error) {
	names, err := manifest.Read(r)
	if err != nil {
		return nil, err
	}

	var found []Registrar
	var missing []string
	for _, name := range names {
		rr, ok := reg.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		found = append(found, rr)
	}
	if len(missing) > 0 {
		return found, &MissingError{Names: missing}
	}
	return found, nil
}

// LoadFS reads the manifest at ManifestPath from fsys. A missing manifest
// means no properties were generated and is not an error.
func (reg *Registry) LoadFS(fsys fs.FS) ([]Registrar, error) {
	f, err := fsys.Open(ManifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return reg.Load(f)
}

// Load resolves a manifest against the default registry.
func Load(r io.Reader) ([]Registrar, error) { return defaultRegistry.Load(r) }

// LoadFS resolves a manifest in fsys against the default registry.
func LoadFS(fsys fs.FS) ([]Registrar, error) { return defaultRegistry.LoadFS(fsys) }
