package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a settings file. Every attribute is
// optional; absent ones keep the base value.
type fileRoot struct {
	Dir       *string  `hcl:"dir,optional"`
	Packages  []string `hcl:"packages,optional"`
	Marker    *string  `hcl:"marker,optional"`
	Strict    *bool    `hcl:"strict,optional"`
	BuildTags []string `hcl:"build_tags,optional"`

	Naming *namingBlock `hcl:"naming,block"`
	Output *outputBlock `hcl:"output,block"`
	Log    *logBlock    `hcl:"log,block"`
	Trace  *traceBlock  `hcl:"trace,block"`

	Remain hcl.Body `hcl:",remain"`
}

type namingBlock struct {
	Prefix    *string `hcl:"prefix,optional"`
	Separator *string `hcl:"separator,optional"`
	Suffix    *string `hcl:"suffix,optional"`
}

type outputBlock struct {
	ResourceDir   *string `hcl:"resource_dir,optional"`
	SourceSuffix  *string `hcl:"source_suffix,optional"`
	Ledger        *string `hcl:"ledger,optional"`
	RuntimeImport *string `hcl:"runtime_import,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type traceBlock struct {
	Enabled  *bool   `hcl:"enabled,optional"`
	Exporter *string `hcl:"exporter,optional"`
	File     *string `hcl:"file,optional"`
	Endpoint *string `hcl:"endpoint,optional"`
}
