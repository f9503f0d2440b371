package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/propreg/internal/config"
	"github.com/vk/propreg/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	tool    string
	version string
	getenv  func(string) string
}

var _ config.Loader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithGetenv replaces os.Getenv for the env() function.
func WithGetenv(fn func(string) string) Option {
	return func(l *Loader) { l.getenv = fn }
}

// NewLoader creates a new HCL settings loader. tool and version are exposed
// to expressions as tool.name and tool.version.
func NewLoader(tool, version string, opts ...Option) *Loader {
	l := &Loader{tool: tool, version: version, getenv: os.Getenv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the settings file at path and applies it on top of base. A
// relative `dir` in the file is resolved against the file's directory. A
// missing file is reported with an error wrapping fs.ErrNotExist.
func (l *Loader) Load(ctx context.Context, path string, base *config.Settings) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL settings loader started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if err := rejectUnknown(root.Remain); err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
	}

	s := translate(&root, base)
	if root.Dir != nil && !filepath.IsAbs(s.Dir) {
		s.Dir = filepath.Join(filepath.Dir(path), s.Dir)
	}

	logger.Debug("HCL settings loading complete.", "marker", s.Marker, "packages", len(s.Packages))
	return s, nil
}

// rejectUnknown reports attributes and blocks the schema does not know.
func rejectUnknown(body hcl.Body) error {
	if body == nil {
		return nil
	}
	_, diags := body.Content(&hcl.BodySchema{})
	if diags.HasErrors() {
		return diags
	}
	return nil
}
