// Package filer is the resource-creation facility a build writes through.
//
// # Purpose
//
// Generated registrar sources and the discovery manifest are never written
// with bare os calls. They go through a Filer, which knows where each kind of
// output lives, remembers which declarations caused it, and refuses to create
// the same output twice in one build.
//
// # Implementations
//
//   - Disk: writes into the module tree. Each file is written to a temporary
//     sibling and renamed into place on Close, so a failed build never leaves
//     a half-written registrar behind.
//   - Memory: keeps every output in memory. Used by tests and by the check
//     command, which compares a fresh build against what is on disk.
//
// # Attribution
//
// Every created output carries the origins of the declarations that caused
// it. A Ledger persists that attribution between builds so stale registrars
// can be removed and the clean command knows exactly what it owns.
package filer
