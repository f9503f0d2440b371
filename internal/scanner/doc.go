// Package scanner finds property declarations in a declaration tree.
//
// A Scanner walks one root unit depth-first and records every field whose
// declared type is the configured marker type as a registration. It also
// reports references to marker-typed fields made from initializer code: such
// code runs while the program is still being initialized, possibly before the
// property registry has been populated, and is flagged as a violation. A
// flagged property is still registered.
//
// Marker matching is by direct type identity only. A named type defined in
// terms of the marker, or a pointer to it, does not match.
package scanner
