// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package schemafile reads shape schemas written in HCL.
//
// A file holds any number of named `shape` blocks and an optional `root`
// attribute. Every shape block contains exactly one expression block:
//
//	root = shape.person
//
//	shape "person" {
//	  and "person" {
//	    triple "named" {
//	      predicate = "http://xmlns.com/foaf/0.1/name"
//	    }
//	    cardinality "friends" {
//	      min = 0
//	      max = "many"
//	      reference "knows" {
//	        predicate = "http://xmlns.com/foaf/0.1/knows"
//	        shape     = shape.person
//	      }
//	    }
//	  }
//	}
//
// Expression blocks:
//
//   - any {}
//   - value "name" { term | iri | literal = "..." }
//   - triple "name" { predicate = "...", optional term | iri | literal }
//   - and "name" / or "name" { nested expressions, optional shapes = [shape.a, ...] }
//   - reference "name" { predicate = "...", shape = shape.x or one nested expression }
//   - cardinality "name" { min = 0, max = 3 | "many", shape = shape.x or one nested expression }
//
// `term` takes N-Triples notation (`"<http://x>"`, `"\"v\"@en"`); `iri` and
// `literal` are shorthands for the common cases. `shape.<name>` refers to a
// shape block in any of the loaded files, before or after the reference.
package schemafile
