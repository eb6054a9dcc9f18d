// Package ntriples reads and writes graphs in the line-based N-Triples
// format: one `subject predicate object .` statement per line.
package ntriples

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
)

const maxLineSize = 1 << 20

// cancelCheckInterval is how many lines Decode reads between context checks.
const cancelCheckInterval = 4096

// Decode reads N-Triples from r. source names the input in errors. Blank
// lines and lines starting with '#' are skipped.
func Decode(ctx context.Context, r io.Reader, source string) (*graph.EdgeList, error) {
	edges := graph.NewEdgeList()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if line%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, backend.NewImportError(source, line, err)
			}
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		s, p, o, err := parseStatement(text)
		if err != nil {
			return nil, backend.NewImportError(source, line, err)
		}
		edges.AddTriple(s, p, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, backend.NewImportError(source, line+1, err)
	}
	return edges, nil
}

func parseStatement(text string) (s graph.Term, p string, o graph.Term, err error) {
	s, rest, err := graph.ScanTerm(text)
	if err != nil {
		return s, "", o, fmt.Errorf("subject: %w", err)
	}
	if s.Kind == graph.Literal {
		return s, "", o, errors.New("subject must be an IRI or blank node")
	}
	pred, rest, err := graph.ScanTerm(rest)
	if err != nil {
		return s, "", o, fmt.Errorf("predicate: %w", err)
	}
	if pred.Kind != graph.IRI {
		return s, "", o, errors.New("predicate must be an IRI")
	}
	o, rest, err = graph.ScanTerm(rest)
	if err != nil {
		return s, "", o, fmt.Errorf("object: %w", err)
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ".") {
		return s, "", o, errors.New("statement must end with '.'")
	}
	if tail := strings.TrimSpace(rest[1:]); tail != "" && tail[0] != '#' {
		return s, "", o, fmt.Errorf("unexpected input after statement: %q", tail)
	}
	return s, pred.Value, o, nil
}

// Encode writes the triples of sg to w, one statement per line, in the order
// the subgraph holds them.
func Encode(w io.Writer, sg *graph.Subgraph) error {
	bw := bufio.NewWriter(w)
	if sg != nil {
		for _, t := range sg.Triples {
			if _, err := fmt.Fprintf(bw, "%s <%s> %s .\n", t.Subject, t.Predicate, t.Object); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
