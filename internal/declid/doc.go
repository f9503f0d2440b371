// internal/declid/doc.go

/*
Package declid provides a structured representation of canonical declaration
names, e.g. `example.com/app/config.AppConfig.Sub.TIMEOUT`.

A name is a package import path followed by a dot-separated declaration path.
The import path may itself contain dots (domain names), so names are kept
structured while they are built and only flattened to strings at the edges.

This package centralizes all formatting and parsing of these names.
*/
package declid
