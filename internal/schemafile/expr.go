// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns expression blocks into shape values. Each block kind has
// its own decode function; decodeExpr dispatches on the block type.
package schemafile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pschema/internal/shape"
)

func decodeExpr(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	switch block.Type {
	case "any":
		return decodeAny(block)
	case "value":
		return decodeValue(block)
	case "triple":
		return decodeTriple(block)
	case "and", "or":
		return decodeGroup(block)
	case "reference":
		return decodeReference(block)
	case "cardinality":
		return decodeCardinality(block)
	}
	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported block type",
		Detail:   "Blocks of type \"" + block.Type + "\" are not expected here.",
		Subject:  &block.TypeRange,
	}}
}

func label(block *hcl.Block) string {
	if len(block.Labels) == 0 {
		return ""
	}
	return block.Labels[0]
}

func decodeAny(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	_, diags := block.Body.Content(anyBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	return shape.Any(), nil
}

func decodeValue(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(valueBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	t, ok, d := decodeTerm(content.Attributes, block.DefRange)
	if d.HasErrors() {
		return nil, d
	}
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing value",
			Detail:   "A value block needs one of term, iri or literal.",
			Subject:  &block.DefRange,
		}}
	}
	return shape.Value(t).Named(label(block)), nil
}

func decodeTriple(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(tripleBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	pred, d := decodeString(content.Attributes["predicate"])
	if d.HasErrors() {
		return nil, d
	}
	t, ok, d := decodeTerm(content.Attributes, block.DefRange)
	if d.HasErrors() {
		return nil, d
	}
	nc := shape.Any()
	if ok {
		nc = shape.Value(t)
	}
	tc, err := shape.NewTripleConstraint(label(block), pred, nc)
	if err != nil {
		return nil, shapeDiag(block, err)
	}
	return tc, nil
}

func decodeGroup(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(groupBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var subs []shape.Shape
	for _, child := range content.Blocks {
		s, d := decodeExpr(child)
		diags = append(diags, d...)
		if s != nil {
			subs = append(subs, s)
		}
	}
	if attr, ok := content.Attributes["shapes"]; ok {
		names, d := decodeShapeList(attr.Expr)
		diags = append(diags, d...)
		for _, name := range names {
			ref, err := shape.NewRef(name)
			if err != nil {
				diags = append(diags, shapeDiag(block, err)...)
				continue
			}
			subs = append(subs, ref)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	var (
		s   shape.Shape
		err error
	)
	if block.Type == "and" {
		s, err = shape.NewAnd(label(block), subs...)
	} else {
		s, err = shape.NewOr(label(block), subs...)
	}
	if err != nil {
		return nil, shapeDiag(block, err)
	}
	return s, nil
}

// decodeInner reads the inner shape of a reference or cardinality: either a
// `shape = shape.<name>` attribute or exactly one nested expression block.
func decodeInner(block *hcl.Block, content *hcl.BodyContent) (shape.Shape, hcl.Diagnostics) {
	attr, hasAttr := content.Attributes["shape"]
	switch {
	case hasAttr && len(content.Blocks) > 0:
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Conflicting inner shape",
			Detail:   "Set either the shape attribute or one nested expression block, not both.",
			Subject:  &block.DefRange,
		}}
	case hasAttr:
		name, diags := decodeShapeName(attr.Expr)
		if diags.HasErrors() {
			return nil, diags
		}
		ref, err := shape.NewRef(name)
		if err != nil {
			return nil, shapeDiag(block, err)
		}
		return ref, nil
	case len(content.Blocks) == 1:
		return decodeExpr(content.Blocks[0])
	default:
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing inner shape",
			Detail:   "A " + block.Type + " block needs a shape attribute or exactly one nested expression block.",
			Subject:  &block.DefRange,
		}}
	}
}

func decodeReference(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(referenceBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	pred, d := decodeString(content.Attributes["predicate"])
	if d.HasErrors() {
		return nil, d
	}
	inner, d := decodeInner(block, content)
	if d.HasErrors() {
		return nil, d
	}
	ref, err := shape.NewReference(label(block), pred, inner)
	if err != nil {
		return nil, shapeDiag(block, err)
	}
	return ref, nil
}

func decodeCardinality(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(cardinalityBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	min, max := shape.Zero, shape.Many
	if attr, ok := content.Attributes["min"]; ok {
		b, d := decodeBound(attr)
		diags = append(diags, d...)
		min = b
	}
	if attr, ok := content.Attributes["max"]; ok {
		b, d := decodeBound(attr)
		diags = append(diags, d...)
		max = b
	}
	if diags.HasErrors() {
		return nil, diags
	}
	inner, d := decodeInner(block, content)
	if d.HasErrors() {
		return nil, d
	}
	card, err := shape.NewCardinality(label(block), inner, min, max)
	if err != nil {
		return nil, shapeDiag(block, err)
	}
	return card, nil
}
