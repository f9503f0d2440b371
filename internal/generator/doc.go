// Package generator renders registrar source files.
//
// Generation is a pure function of a compile unit, the build timestamp and
// the tool identity: it performs no I/O and reads no clock, so the same
// inputs always produce byte-identical source.
package generator
