package shape

// TreeNode describes one level of a tree-shaped schema: the edge that
// reaches it, the constraint on the vertex it reaches, and its children.
type TreeNode struct {
	Name      string
	Predicate string
	// Object constrains the vertex the edge leads to. Nil means Any.
	Object   *NodeConstraint
	Children []TreeNode
}

// Tree builds a shape from a tree description. A leaf becomes a
// TripleConstraint. An inner node becomes a ShapeReference along its
// predicate to the conjunction of its object constraint and its children.
func Tree(root TreeNode) (Shape, error) {
	obj := root.Object
	if obj == nil {
		obj = Any()
	}
	if len(root.Children) == 0 {
		tc, err := NewTripleConstraint(root.Name, root.Predicate, obj)
		if err != nil {
			return nil, err
		}
		return tc, nil
	}
	subs := make([]Shape, 0, len(root.Children)+1)
	subs = append(subs, obj)
	for _, child := range root.Children {
		s, err := Tree(child)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	inner, err := NewAnd(root.Name, subs...)
	if err != nil {
		return nil, err
	}
	ref, err := NewReference(root.Name, root.Predicate, inner)
	if err != nil {
		return nil, err
	}
	return ref, nil
}
