// Package session owns the state of one build.
//
// A host build drives a Session through a series of rounds. Each round
// presents the root declarations that became visible since the previous one.
// The session scans them, generates and writes a registrar for every root
// that declares properties, and accumulates the registrar names in discovery
// order. When the host signals the last round the accumulated names are
// written to the discovery manifest, once, and the session is finished.
//
// All registrars of one build carry the timestamp captured when the session
// was created.
package session
