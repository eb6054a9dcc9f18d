package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Term
	}{
		{"iri", "<http://example.org/a>", NewIRI("http://example.org/a")},
		{"blank", "_:b0", NewBlank("b0")},
		{"plain literal", `"v1"`, NewLiteral("v1")},
		{"escaped literal", `"say \"hi\"\né"`, NewLiteral("say \"hi\"\né")},
		{"lang literal", `"chat"@fr`, NewLangLiteral("chat", "fr")},
		{"typed literal", `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`, NewTypedLiteral("5", "http://www.w3.org/2001/XMLSchema#integer")},
		{"surrounding space", "  <x>  ", NewIRI("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTerm(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTerm_Errors(t *testing.T) {
	for _, in := range []string{"", "<unterminated", "<>", `"open`, "plain", `"x"@`, `"x"^^"y"`, "<a> <b>", "_:"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTerm(in)
			assert.Error(t, err)
		})
	}
}

func TestTermString_RoundTrip(t *testing.T) {
	terms := []Term{
		NewIRI("<http://example.org/a>"),
		NewBlank("_:node1"),
		NewLiteral("tab\there \"quoted\" back\\slash"),
		NewLangLiteral("hello", "en-GB"),
		NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"),
	}
	for _, term := range terms {
		t.Run(term.String(), func(t *testing.T) {
			got, err := ParseTerm(term.String())
			require.NoError(t, err)
			assert.Equal(t, term, got)
		})
	}
}

func TestScanTerm_BlankBeforeDot(t *testing.T) {
	term, rest, err := ScanTerm("_:b1.")
	require.NoError(t, err)
	assert.Equal(t, NewBlank("b1"), term)
	assert.Equal(t, ".", rest)
}

func TestTermsAreNotCoerced(t *testing.T) {
	assert.NotEqual(t, NewLiteral("1"), NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"))
	assert.NotEqual(t, NewLiteral("x"), NewIRI("x"))
}
