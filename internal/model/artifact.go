// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines RegistrarArtifact, one generated registrar source file.
package model

import (
	"slices"
	"time"

	"github.com/vk/propreg/internal/decl"
)

// RegistrarArtifact is the generated source for one root declaration.
type RegistrarArtifact struct {
	pkg       string
	typeName  string
	fileName  string
	root      string
	origin    decl.Origin
	timestamp time.Time
	source    []byte
}

// NewRegistrarArtifact creates an artifact. source is copied.
func NewRegistrarArtifact(pkg, typeName, fileName string, unit *CompileUnit, ts time.Time, source []byte) *RegistrarArtifact {
	return &RegistrarArtifact{
		pkg:       pkg,
		typeName:  typeName,
		fileName:  fileName,
		root:      unit.RootName(),
		origin:    unit.Origin(),
		timestamp: ts,
		source:    slices.Clone(source),
	}
}

// FullName returns the fully-qualified generated type name, the string that
// is listed in the discovery manifest.
func (a *RegistrarArtifact) FullName() string { return decl.Qualify(a.pkg, a.typeName) }

// Package returns the import path the registrar is generated into.
func (a *RegistrarArtifact) Package() string { return a.pkg }

// TypeName returns the generated type's simple name.
func (a *RegistrarArtifact) TypeName() string { return a.typeName }

// FileName returns the base name of the generated source file.
func (a *RegistrarArtifact) FileName() string { return a.fileName }

// RootName returns the canonical name of the owning root declaration.
func (a *RegistrarArtifact) RootName() string { return a.root }

// Origin returns the source the owning root came from.
func (a *RegistrarArtifact) Origin() decl.Origin { return a.origin }

// Timestamp returns the build timestamp embedded in the source.
func (a *RegistrarArtifact) Timestamp() time.Time { return a.timestamp }

// Source returns a copy of the generated source text.
func (a *RegistrarArtifact) Source() []byte { return slices.Clone(a.source) }
