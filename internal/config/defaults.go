package config

// Default settings values.
const (
	DefaultMarker        = "github.com/vk/propreg/pkg/prop.Property"
	DefaultRuntimeImport = "github.com/vk/propreg/pkg/registrar"
	DefaultResourceDir   = "resources"
	DefaultSourceSuffix  = "_propreg.go"
	DefaultLedger        = ".propreg-ledger.yaml"
	DefaultSettingsFile  = "propreg.hcl"
)

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		Dir:      ".",
		Packages: []string{"./..."},
		Marker:   DefaultMarker,
		Naming: Naming{
			Separator: "__",
			Suffix:    "__PropertyRegistrar",
		},
		Output: Output{
			ResourceDir:   DefaultResourceDir,
			SourceSuffix:  DefaultSourceSuffix,
			Ledger:        DefaultLedger,
			RuntimeImport: DefaultRuntimeImport,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Trace: Trace{
			Exporter: "stdout",
			Endpoint: "localhost:4317",
		},
	}
}
