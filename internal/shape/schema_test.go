package shape

import (
	"testing"

	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Tree(t *testing.T) {
	name := Must(NewTripleConstraint("name", "name", nil))
	age := Must(NewTripleConstraint("age", "age", Value(graph.NewLiteral("42"))))
	root := Must(NewAnd("person", name, age))

	schema, err := Compile(root)
	require.NoError(t, err)
	require.Equal(t, 3, schema.Len())

	r := schema.Node(schema.Root())
	assert.Equal(t, KindAnd, r.Kind)
	assert.Equal(t, "person", r.Name)
	require.Len(t, r.Children, 2)

	n := schema.Node(r.Children[0])
	assert.Equal(t, KindTriple, n.Kind)
	assert.True(t, n.AnyObject)

	a := schema.Node(r.Children[1])
	assert.False(t, a.AnyObject)
	assert.Equal(t, graph.NewLiteral("42"), a.Value)

	// Children precede their parents locally.
	order := schema.LocalOrder()
	require.Len(t, order, 3)
	assert.Equal(t, schema.Root(), order[2])

	// Acyclic: one stratum per node, none recursive.
	assert.Equal(t, 3, schema.NumStrata())
	for k := 0; k < schema.NumStrata(); k++ {
		assert.False(t, schema.Cyclic(k))
	}
}

func TestCompile_SharedSubShapeIsDeduplicated(t *testing.T) {
	name := Must(NewTripleConstraint("name", "name", nil))
	root := Must(NewOr("either", Must(NewAnd("a", name)), Must(NewAnd("b", name))))

	schema, err := Compile(root)
	require.NoError(t, err)
	assert.Equal(t, 4, schema.Len())
}

func TestCompile_RecursiveReference(t *testing.T) {
	// person = name AND knows->person
	name := Must(NewTripleConstraint("name", "name", nil))
	knows := Must(NewReference("knows", "knows", Must(NewRef("person"))))
	person := Must(NewAnd("person", name, knows))

	schema, err := Compile(Must(NewRef("person")), Define("person", person))
	require.NoError(t, err)

	rootID := schema.Root()
	root := schema.Node(rootID)
	assert.Equal(t, KindAnd, root.Kind)

	id, ok := schema.Lookup("person")
	require.True(t, ok)
	assert.Equal(t, rootID, id)

	ref := schema.Node(root.Children[1])
	assert.Equal(t, KindReference, ref.Kind)
	assert.Equal(t, rootID, ref.Inner())
	assert.Equal(t, []string{"knows"}, schema.ReferencedBy(rootID))

	// person and knows share a recursive stratum; name sits below it.
	assert.Equal(t, root.Stratum, ref.Stratum)
	assert.True(t, schema.Cyclic(root.Stratum))
	nameNode := schema.Node(root.Children[0])
	assert.Less(t, nameNode.Stratum, root.Stratum)
	assert.False(t, schema.Cyclic(nameNode.Stratum))
}

func TestCompile_Malformed(t *testing.T) {
	name := Must(NewTripleConstraint("name", "name", nil))

	t.Run("nil root", func(t *testing.T) {
		_, err := Compile(nil)
		requireMalformed(t, err)
	})

	t.Run("unknown definition", func(t *testing.T) {
		_, err := Compile(Must(NewReference("r", "p", Must(NewRef("missing")))))
		me := requireMalformed(t, err)
		assert.Equal(t, "missing", me.Shape)
	})

	t.Run("duplicate definition", func(t *testing.T) {
		_, err := Compile(name, Define("x", name), Define("x", name))
		requireMalformed(t, err)
	})

	t.Run("definition that only names itself", func(t *testing.T) {
		_, err := Compile(Must(NewRef("a")), Define("a", Must(NewRef("b"))), Define("b", Must(NewRef("a"))))
		requireMalformed(t, err)
	})

	t.Run("recursion without a reference", func(t *testing.T) {
		loop := Must(NewAnd("loop", name, Must(NewRef("loop"))))
		_, err := Compile(loop, Define("loop", loop))
		me := requireMalformed(t, err)
		assert.Equal(t, "loop", me.Shape)
	})

	t.Run("recursion through cardinality", func(t *testing.T) {
		card := Must(NewCardinality("card", Must(NewRef("card")), Zero, Many))
		_, err := Compile(card, Define("card", card))
		requireMalformed(t, err)
	})

	t.Run("unreachable definition is still checked", func(t *testing.T) {
		bad := Must(NewReference("bad", "p", Must(NewRef("nowhere"))))
		_, err := Compile(name, Define("bad", bad))
		requireMalformed(t, err)
	})
}

func TestCompile_CardinalityEdgePredicates(t *testing.T) {
	knows := Must(NewReference("knows", "knows", Must(NewTripleConstraint("name", "name", nil))))
	likes := Must(NewTripleConstraint("likes", "likes", nil))
	card := Must(NewCardinality("friends", Must(NewOr("edge", knows, likes)), Exactly(1), Exactly(2)))

	schema, err := Compile(card)
	require.NoError(t, err)
	root := schema.Node(schema.Root())
	assert.Equal(t, KindCardinality, root.Kind)
	assert.Equal(t, []string{"knows", "likes"}, root.EdgePredicates)
	assert.False(t, root.AllPredicates)

	anyCard := Must(NewCardinality("degree", Any(), Zero, Exactly(3)))
	schema, err = Compile(anyCard)
	require.NoError(t, err)
	assert.True(t, schema.Node(schema.Root()).AllPredicates)
}
