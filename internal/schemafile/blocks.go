// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the body schemas of every block kind and the helpers that
// decode their attributes.
package schemafile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileSchema is the top level of a schema file.
var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "root"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "shape", LabelNames: []string{"name"}},
	},
}

// exprBlocks lists every expression block header.
var exprBlocks = []hcl.BlockHeaderSchema{
	{Type: "any"},
	{Type: "value", LabelNames: []string{"name"}},
	{Type: "triple", LabelNames: []string{"name"}},
	{Type: "and", LabelNames: []string{"name"}},
	{Type: "or", LabelNames: []string{"name"}},
	{Type: "reference", LabelNames: []string{"name"}},
	{Type: "cardinality", LabelNames: []string{"name"}},
}

var termAttributes = []hcl.AttributeSchema{
	{Name: "term"}, {Name: "iri"}, {Name: "literal"},
}

var (
	shapeBodySchema = &hcl.BodySchema{Blocks: exprBlocks}
	anyBodySchema   = &hcl.BodySchema{}
	valueBodySchema = &hcl.BodySchema{Attributes: termAttributes}

	tripleBodySchema = &hcl.BodySchema{
		Attributes: append([]hcl.AttributeSchema{{Name: "predicate", Required: true}}, termAttributes...),
	}
	groupBodySchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "shapes"}},
		Blocks:     exprBlocks,
	}
	referenceBodySchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "predicate", Required: true}, {Name: "shape"}},
		Blocks:     exprBlocks,
	}
	cardinalityBodySchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "min"}, {Name: "max"}, {Name: "shape"}},
		Blocks:     exprBlocks,
	}
)

// decodeShapeName reads a `shape.<name>` traversal.
func decodeShapeName(expr hcl.Expression) (string, hcl.Diagnostics) {
	invalid := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid shape reference",
		Detail:   "A shape reference must have the form shape.<name>.",
		Subject:  expr.Range().Ptr(),
	}}
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 2 || traversal.RootName() != "shape" {
		return "", invalid
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", invalid
	}
	return attr.Name, nil
}

// decodeShapeList reads a list of `shape.<name>` traversals.
func decodeShapeList(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	names := make([]string, 0, len(exprs))
	for _, e := range exprs {
		name, d := decodeShapeName(e)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		names = append(names, name)
	}
	return names, diags
}

func decodeString(attr *hcl.Attribute) (string, hcl.Diagnostics) {
	var s string
	diags := gohcl.DecodeExpression(attr.Expr, nil, &s)
	return s, diags
}

// decodeTerm reads at most one of term, iri or literal. ok is false when
// none is present.
func decodeTerm(attrs hcl.Attributes, rng hcl.Range) (t graph.Term, ok bool, diags hcl.Diagnostics) {
	var set []*hcl.Attribute
	for _, schema := range termAttributes {
		if attr, present := attrs[schema.Name]; present {
			set = append(set, attr)
		}
	}
	switch len(set) {
	case 0:
		return graph.Term{}, false, nil
	case 1:
	default:
		return graph.Term{}, false, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Conflicting value attributes",
			Detail:   "Only one of term, iri or literal may be set.",
			Subject:  rng.Ptr(),
		}}
	}

	attr := set[0]
	s, diags := decodeString(attr)
	if diags.HasErrors() {
		return graph.Term{}, false, diags
	}
	switch attr.Name {
	case "iri":
		t = graph.NewIRI(s)
	case "literal":
		t = graph.NewLiteral(s)
	default:
		parsed, err := graph.ParseTerm(s)
		if err != nil {
			return graph.Term{}, false, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid term",
				Detail:   err.Error(),
				Subject:  attr.Expr.Range().Ptr(),
			}}
		}
		t = parsed
	}
	return t, true, nil
}

// decodeBound reads a non-negative number or the string "many".
func decodeBound(attr *hcl.Attribute) (shape.Bound, hcl.Diagnostics) {
	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid cardinality bound",
			Detail:   detail,
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return shape.Bound{}, diags
	}
	if val.IsNull() || !val.IsKnown() {
		return shape.Bound{}, invalid("The bound must be a number or \"many\".")
	}
	switch val.Type() {
	case cty.String:
		if val.AsString() == "many" {
			return shape.Many, nil
		}
		return shape.Bound{}, invalid(fmt.Sprintf("Unknown bound %q; use a number or \"many\".", val.AsString()))
	case cty.Number:
		var n int
		if err := gocty.FromCtyValue(val, &n); err != nil {
			return shape.Bound{}, invalid(fmt.Sprintf("The bound must be a whole number: %s.", err))
		}
		if n < 0 {
			return shape.Bound{}, invalid("The bound must not be negative.")
		}
		return shape.Exactly(n), nil
	default:
		return shape.Bound{}, invalid("The bound must be a number or \"many\".")
	}
}

// shapeDiag turns a constructor error into a diagnostic at the block.
func shapeDiag(block *hcl.Block, err error) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid shape",
		Detail:   err.Error(),
		Subject:  &block.DefRange,
	}}
}
