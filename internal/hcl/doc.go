// Package hcl provides the concrete HCL implementation of the config.Loader
// interface defined in the `config` package.
//
// A settings file is parsed with hclparse, decoded with gohcl into the
// schema structs of this package, and translated into the format-agnostic
// config.Settings. Expressions are evaluated against a small context:
//
//	tool.name, tool.version   the running tool
//	env("NAME")               an environment variable, "" when unset
//
// Example:
//
//	marker   = "example.com/app/prop.Property"
//	packages = ["./cmd/...", "./internal/..."]
//
//	naming {
//	  suffix = "__PropertyRegistrar"
//	}
//
//	output {
//	  resource_dir = env("PROPREG_RESOURCES")
//	}
package hcl
