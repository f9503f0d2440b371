package config

// Settings is the unified, format-agnostic representation of the
// configuration of one propreg run.
type Settings struct {
	// Dir is the module root packages are loaded from and outputs are
	// written below.
	Dir string `mapstructure:"dir" validate:"required"`
	// Packages are go package patterns, relative to Dir.
	Packages []string `mapstructure:"packages" validate:"min=1,dive,required"`
	// Marker is the property marker type, "importpath.TypeName".
	Marker string `mapstructure:"marker" validate:"required,qualified"`
	// Strict turns structural violations into a failing exit.
	Strict bool `mapstructure:"strict"`
	// BuildTags are passed to the go command when loading packages.
	BuildTags []string `mapstructure:"build_tags" validate:"dive,required"`

	Naming Naming `mapstructure:"naming"`
	Output Output `mapstructure:"output"`
	Log    Log    `mapstructure:"log"`
	Trace  Trace  `mapstructure:"trace"`
}

// Naming is the registrar naming scheme.
type Naming struct {
	Prefix    string `mapstructure:"prefix" validate:"omitempty,identpart"`
	Separator string `mapstructure:"separator" validate:"required,identpart"`
	Suffix    string `mapstructure:"suffix" validate:"omitempty,identpart"`
}

// Output controls where generated files go.
type Output struct {
	// ResourceDir receives the manifest, relative to Dir.
	ResourceDir string `mapstructure:"resource_dir" validate:"required"`
	// SourceSuffix is appended to generated file names.
	SourceSuffix string `mapstructure:"source_suffix" validate:"required,endswith=.go"`
	// Ledger is the attribution ledger file, relative to Dir.
	Ledger string `mapstructure:"ledger" validate:"required"`
	// RuntimeImport is the package generated code registers with.
	RuntimeImport string `mapstructure:"runtime_import" validate:"required"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Trace configures OpenTelemetry tracing.
type Trace struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=file stdout otlp none"`
	File     string `mapstructure:"file" validate:"required_if=Exporter file"`
	Endpoint string `mapstructure:"endpoint"`
}
