package graph

// VertexID is the dense, stable identifier of a vertex within one Graph.
type VertexID uint32

// Edge is a directed, labeled edge of an EdgeList. Subject and Object index
// into EdgeList.Vertices.
type Edge struct {
	Subject   VertexID
	Predicate string
	Object    VertexID
}

// EdgeList is the canonical form backends import into. Vertices may contain
// terms that no edge mentions; edges may reference vertices that do not exist,
// which FromEdges rejects.
type EdgeList struct {
	Vertices []Term
	Edges    []Edge

	index map[Term]VertexID
}

// NewEdgeList returns an empty list ready for AddTriple.
func NewEdgeList() *EdgeList {
	return &EdgeList{index: make(map[Term]VertexID)}
}

// AddVertex interns t and returns its id. Adding the same term twice returns
// the id of the first insertion.
func (l *EdgeList) AddVertex(t Term) VertexID {
	if l.index == nil {
		l.index = make(map[Term]VertexID, len(l.Vertices))
		for i, v := range l.Vertices {
			if _, ok := l.index[v]; !ok {
				l.index[v] = VertexID(i)
			}
		}
	}
	if id, ok := l.index[t]; ok {
		return id
	}
	id := VertexID(len(l.Vertices))
	l.Vertices = append(l.Vertices, t)
	l.index[t] = id
	return id
}

// AddTriple interns both endpoints and appends the edge subject -predicate-> object.
func (l *EdgeList) AddTriple(subject Term, predicate string, object Term) {
	s := l.AddVertex(subject)
	o := l.AddVertex(object)
	l.Edges = append(l.Edges, Edge{Subject: s, Predicate: predicate, Object: o})
}

// Len returns the number of edges.
func (l *EdgeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Edges)
}
