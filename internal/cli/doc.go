// Package cli is responsible for parsing command-line arguments, layering
// settings, and handling process-level concerns like exit codes. It
// translates flags, environment variables and the settings file into the
// application's config.Settings and runs the requested app operation.
package cli
