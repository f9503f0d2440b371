package hcl

import (
	"slices"

	"github.com/vk/propreg/internal/config"
)

// translate copies the attributes present in root over a copy of base.
func translate(root *fileRoot, base *config.Settings) *config.Settings {
	s := *base
	s.Packages = slices.Clone(base.Packages)
	s.BuildTags = slices.Clone(base.BuildTags)

	set(&s.Dir, root.Dir)
	set(&s.Marker, root.Marker)
	set(&s.Strict, root.Strict)
	if root.Packages != nil {
		s.Packages = slices.Clone(root.Packages)
	}
	if root.BuildTags != nil {
		s.BuildTags = slices.Clone(root.BuildTags)
	}

	if n := root.Naming; n != nil {
		set(&s.Naming.Prefix, n.Prefix)
		set(&s.Naming.Separator, n.Separator)
		set(&s.Naming.Suffix, n.Suffix)
	}
	if o := root.Output; o != nil {
		set(&s.Output.ResourceDir, o.ResourceDir)
		set(&s.Output.SourceSuffix, o.SourceSuffix)
		set(&s.Output.Ledger, o.Ledger)
		set(&s.Output.RuntimeImport, o.RuntimeImport)
	}
	if lg := root.Log; lg != nil {
		set(&s.Log.Level, lg.Level)
		set(&s.Log.Format, lg.Format)
	}
	if t := root.Trace; t != nil {
		set(&s.Trace.Enabled, t.Enabled)
		set(&s.Trace.Exporter, t.Exporter)
		set(&s.Trace.File, t.File)
		set(&s.Trace.Endpoint, t.Endpoint)
	}
	return &s
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
