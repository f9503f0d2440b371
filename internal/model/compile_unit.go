// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines CompileUnit, the result of scanning one root declaration.
//
// Why keep errors next to registrations?
//
// A structural violation such as a property read from an initializer does not
// make the property itself invalid. Both outcomes come from the same walk, so
// they are reported together and the caller decides what to do with each.
package model

import (
	"slices"

	"github.com/vk/propreg/internal/decl"
)

// CompileUnit is the immutable result of scanning one root declaration.
type CompileUnit struct {
	root          string
	pkg           string
	pkgName       string
	local         string
	origin        decl.Origin
	registrations []PropertyRegistration
	errors        []string
}

// NewCompileUnit creates a unit for the given root. The slices are copied.
func NewCompileUnit(unit *decl.Unit, registrations []PropertyRegistration, errors []string) *CompileUnit {
	return &CompileUnit{
		root:          unit.CanonicalName(),
		pkg:           unit.Package,
		pkgName:       unit.PackageName,
		local:         unit.Root.Name,
		origin:        unit.Origin,
		registrations: slices.Clone(registrations),
		errors:        slices.Clone(errors),
	}
}

// RootName returns the canonical name of the scanned root declaration.
func (c *CompileUnit) RootName() string { return c.root }

// Package returns the import path of the package declaring the root.
func (c *CompileUnit) Package() string { return c.pkg }

// PackageName returns the package clause name of the declaring package.
func (c *CompileUnit) PackageName() string { return c.pkgName }

// LocalName returns the root's name within its package.
func (c *CompileUnit) LocalName() string { return c.local }

// Origin returns the source the root came from.
func (c *CompileUnit) Origin() decl.Origin { return c.origin }

// Registrations returns the discovered properties in discovery order.
func (c *CompileUnit) Registrations() []PropertyRegistration {
	return slices.Clone(c.registrations)
}

// Errors returns the structural violations in discovery order.
func (c *CompileUnit) Errors() []string {
	return slices.Clone(c.errors)
}

// HasRegistrations reports whether at least one property was found.
func (c *CompileUnit) HasRegistrations() bool {
	return len(c.registrations) > 0
}

// HasErrors reports whether at least one violation was found.
func (c *CompileUnit) HasErrors() bool {
	return len(c.errors) > 0
}
