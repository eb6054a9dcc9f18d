package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TermKind distinguishes the RDF node kinds a vertex can represent.
type TermKind uint8

const (
	// IRI is an absolute identifier, written <...> in N-Triples.
	IRI TermKind = iota
	// Literal is a plain, language-tagged or datatyped literal value.
	Literal
	// Blank is a blank node, written _:label in N-Triples.
	Blank
)

func (k TermKind) String() string {
	switch k {
	case IRI:
		return "iri"
	case Literal:
		return "literal"
	case Blank:
		return "blank"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is the value carried by a vertex. Terms are comparable and two terms
// are equal only if every field matches, so value constraints never coerce.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// NewIRI returns an IRI term. Surrounding angle brackets are stripped.
func NewIRI(iri string) Term {
	return Term{Kind: IRI, Value: strings.TrimSuffix(strings.TrimPrefix(iri, "<"), ">")}
}

// NewLiteral returns a plain literal term.
func NewLiteral(value string) Term {
	return Term{Kind: Literal, Value: value}
}

// NewTypedLiteral returns a literal with a datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Kind: Literal, Value: value, Datatype: NewIRI(datatype).Value}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) Term {
	return Term{Kind: Literal, Value: value, Lang: lang}
}

// NewBlank returns a blank node term. A leading "_:" is stripped.
func NewBlank(label string) Term {
	return Term{Kind: Blank, Value: strings.TrimPrefix(label, "_:")}
}

// String renders the term in N-Triples notation.
func (t Term) String() string {
	switch t.Kind {
	case IRI:
		return "<" + t.Value + ">"
	case Blank:
		return "_:" + t.Value
	default:
		var sb strings.Builder
		sb.WriteByte('"')
		escapeLiteral(&sb, t.Value)
		sb.WriteByte('"')
		if t.Lang != "" {
			sb.WriteByte('@')
			sb.WriteString(t.Lang)
		} else if t.Datatype != "" {
			sb.WriteString("^^<")
			sb.WriteString(t.Datatype)
			sb.WriteByte('>')
		}
		return sb.String()
	}
}

func escapeLiteral(sb *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
}

// ParseTerm parses a single term written in N-Triples notation. Trailing
// input after the term is an error.
func ParseTerm(s string) (Term, error) {
	t, rest, err := ScanTerm(strings.TrimSpace(s))
	if err != nil {
		return Term{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return Term{}, fmt.Errorf("unexpected input after term: %q", rest)
	}
	return t, nil
}

// ScanTerm reads one N-Triples term from the start of s and returns it along
// with the unconsumed remainder. Leading whitespace is skipped.
func ScanTerm(s string) (Term, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return Term{}, s, fmt.Errorf("expected term, got end of input")
	}
	switch {
	case s[0] == '<':
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return Term{}, s, fmt.Errorf("unterminated IRI: %q", s)
		}
		iri := s[1:end]
		if iri == "" || strings.ContainsAny(iri, " \t<\"") {
			return Term{}, s, fmt.Errorf("invalid IRI: %q", s[:end+1])
		}
		return Term{Kind: IRI, Value: iri}, s[end+1:], nil
	case strings.HasPrefix(s, "_:"):
		end := 2
		for end < len(s) && !isTermDelimiter(s[end]) {
			end++
		}
		for end > 2 && s[end-1] == '.' {
			end--
		}
		if end == 2 {
			return Term{}, s, fmt.Errorf("empty blank node label")
		}
		return Term{Kind: Blank, Value: s[2:end]}, s[end:], nil
	case s[0] == '"':
		return scanLiteral(s)
	default:
		return Term{}, s, fmt.Errorf("unexpected character %q at start of term", s[0])
	}
}

func isTermDelimiter(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func scanLiteral(s string) (Term, string, error) {
	var sb strings.Builder
	i := 1
	for {
		if i >= len(s) {
			return Term{}, s, fmt.Errorf("unterminated literal: %q", s)
		}
		c := s[i]
		if c == '"' {
			i++
			break
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return Term{}, s, fmt.Errorf("dangling escape in literal: %q", s)
		}
		switch s[i+1] {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\'':
			sb.WriteByte('\'')
		case 'u', 'U':
			width := 4
			if s[i+1] == 'U' {
				width = 8
			}
			if i+2+width > len(s) {
				return Term{}, s, fmt.Errorf("truncated unicode escape in literal: %q", s)
			}
			code, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
			if err != nil {
				return Term{}, s, fmt.Errorf("invalid unicode escape in literal: %w", err)
			}
			sb.WriteRune(rune(code))
			i += width
		default:
			return Term{}, s, fmt.Errorf("unknown escape \\%c in literal", s[i+1])
		}
		i += 2
	}

	t := Term{Kind: Literal, Value: sb.String()}
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, "@"):
		end := 1
		for end < len(rest) && (isAlphaNum(rest[end]) || rest[end] == '-') {
			end++
		}
		if end == 1 {
			return Term{}, s, fmt.Errorf("empty language tag")
		}
		t.Lang = rest[1:end]
		rest = rest[end:]
	case strings.HasPrefix(rest, "^^"):
		dt, after, err := ScanTerm(rest[2:])
		if err != nil {
			return Term{}, s, fmt.Errorf("invalid datatype: %w", err)
		}
		if dt.Kind != IRI {
			return Term{}, s, fmt.Errorf("datatype must be an IRI, got %s", dt.Kind)
		}
		t.Datatype = dt.Value
		rest = after
	}
	return t, rest, nil
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
