// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the in-memory results of a propreg build. Its purpose is
// to give the scanner, the generator and the build session one small,
// immutable vocabulary to exchange.
//
// # Core Concepts
//
//   - PropertyRegistration: one discovered property field, named canonically
//     by its root declaration, the nested declarations around it and its own
//     field name.
//
//   - CompileUnit: everything a single scan of one root declaration found,
//     registrations and structural errors alike, in discovery order.
//
//   - RegistrarArtifact: the generated source for one root declaration that
//     has at least one registration, together with the identity it is
//     written under.
//
// Why a separate model package?
//
// The scanner and the generator never talk to each other directly. The build
// session passes a CompileUnit from one to the other, and every value here is
// built once and then only read, so a unit can be cached, compared in tests,
// or handed to the generator without copying.
package model
