// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file parses schema files into Documents and merges the Documents of a
// whole workspace into one compiled shape.Schema. Definitions are shared
// across files, so a reference may point at a shape in another file.
package schemafile

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/fsutil"
	"github.com/specialistvlad/pschema/internal/shape"
)

// Document is the content of one schema file.
type Document struct {
	Filename string
	// Root is the shape named by the `root` attribute, or empty.
	Root        string
	Definitions []shape.Definition
}

// Parse decodes one schema file from memory.
func Parse(filename string, src []byte) (*Document, error) {
	return parse(hclparse.NewParser(), filename, src)
}

func parse(parser *hclparse.Parser, filename string, src []byte) (*Document, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", filename, diags)
	}
	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode schema file %s: %w", filename, diags)
	}

	doc := &Document{Filename: filename}
	if attr, ok := content.Attributes["root"]; ok {
		name, d := decodeShapeName(attr.Expr)
		diags = append(diags, d...)
		doc.Root = name
	}

	seen := make(map[string]*hcl.Block)
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if prev, dup := seen[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate shape",
				Detail:   fmt.Sprintf("Shape %q was already defined at %s.", name, prev.DefRange),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = block

		s, d := decodeShapeBlock(block)
		diags = append(diags, d...)
		if s != nil {
			doc.Definitions = append(doc.Definitions, shape.Define(name, s))
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("error in schema file %s: %w", filename, diags)
	}
	return doc, nil
}

// decodeShapeBlock reads a `shape "name"` block, which holds exactly one
// expression.
func decodeShapeBlock(block *hcl.Block) (shape.Shape, hcl.Diagnostics) {
	content, diags := block.Body.Content(shapeBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	if len(content.Blocks) != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid shape block",
			Detail:   fmt.Sprintf("Shape %q must contain exactly one expression block, found %d.", block.Labels[0], len(content.Blocks)),
			Subject:  &block.DefRange,
		}}
	}
	return decodeExpr(content.Blocks[0])
}

// Load reads every .hcl file under paths and compiles the result. root names
// the root shape and overrides any `root` attribute; when both are absent a
// workspace with a single shape uses that shape.
func Load(ctx context.Context, root string, paths ...string) (*shape.Schema, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Schema loading started.", "path_count", len(paths))

	files, err := findSchemaFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl schema files found in %v", paths)
	}
	logger.Debug("Discovered schema files.", "count", len(files))

	parser := hclparse.NewParser()
	var (
		docs    []*Document
		defs    []shape.Definition
		defined = make(map[string]string)
	)
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", file, err)
		}
		doc, err := parse(parser, file, src)
		if err != nil {
			return nil, err
		}
		for _, d := range doc.Definitions {
			if prev, dup := defined[d.Name]; dup {
				return nil, fmt.Errorf("shape %q is defined in both %s and %s", d.Name, prev, file)
			}
			defined[d.Name] = file
		}
		docs = append(docs, doc)
		defs = append(defs, doc.Definitions...)
	}

	rootName, err := resolveRoot(root, docs, defs)
	if err != nil {
		return nil, err
	}
	ref, err := shape.NewRef(rootName)
	if err != nil {
		return nil, err
	}
	schema, err := shape.Compile(ref, defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	logger.Debug("Schema loading complete.", "shapes", len(defs), "root", rootName, "nodes", schema.Len(), "strata", schema.NumStrata())
	return schema, nil
}

func resolveRoot(override string, docs []*Document, defs []shape.Definition) (string, error) {
	if override != "" {
		return override, nil
	}
	var root, from string
	for _, doc := range docs {
		if doc.Root == "" {
			continue
		}
		if root != "" && root != doc.Root {
			return "", fmt.Errorf("conflicting root shapes: %q in %s and %q in %s", root, from, doc.Root, doc.Filename)
		}
		root, from = doc.Root, doc.Filename
	}
	if root != "" {
		return root, nil
	}
	if len(defs) == 1 {
		return defs[0].Name, nil
	}
	return "", fmt.Errorf("no root shape: set root = shape.<name> in a schema file or pass a root name")
}

// findSchemaFiles expands directories to the .hcl files they contain.
func findSchemaFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing schema path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find schema files in %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
