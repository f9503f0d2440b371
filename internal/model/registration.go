// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines PropertyRegistration, the record of one property field.
//
// Why three names?
//
// The canonical name is what the runtime looks properties up by. The root name
// ties the property to the registrar that lists it, and the parent name keeps
// the nesting visible for diagnostics without having to re-parse a dotted
// string whose package part may itself contain dots.
package model

import "github.com/vk/propreg/internal/declid"

// PropertyRegistration is one discovered property field. It is a value type;
// copies are independent and nothing mutates it after construction.
type PropertyRegistration struct {
	canonical string
	root      string
	parent    string
}

// NewPropertyRegistration builds a registration for the field named by id.
// id must have at least two path segments: the root and the field.
func NewPropertyRegistration(id declid.Name) PropertyRegistration {
	return PropertyRegistration{
		canonical: id.String(),
		root:      id.Root().String(),
		parent:    id.Parent().String(),
	}
}

// CanonicalName returns the full dotted name, e.g. "AppConfig.Sub.TIMEOUT".
func (p PropertyRegistration) CanonicalName() string { return p.canonical }

// RootName returns the canonical name of the owning root declaration.
func (p PropertyRegistration) RootName() string { return p.root }

// ParentName returns the canonical name of the immediately enclosing
// declaration.
func (p PropertyRegistration) ParentName() string { return p.parent }

func (p PropertyRegistration) String() string { return p.canonical }
