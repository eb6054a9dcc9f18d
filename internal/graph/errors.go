package graph

import (
	"errors"
	"fmt"
)

// ErrConstruction is the sentinel wrapped by every ConstructionError.
var ErrConstruction = errors.New("graph construction error")

// Construction error kinds.
const (
	KindEmptyEdgeList  = "empty_edge_list"
	KindDanglingEdge   = "dangling_edge"
	KindEmptyPredicate = "empty_predicate"
)

// ConstructionError reports an edge list that cannot be turned into a Graph.
// Edge is the index of the offending edge, or -1 when the problem is not tied
// to a single edge.
type ConstructionError struct {
	Kind string
	Edge int
	Msg  string
}

func (e *ConstructionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Edge >= 0 {
		return fmt.Sprintf("%s: %s: edge #%d: %s", ErrConstruction.Error(), e.Kind, e.Edge, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConstruction.Error(), e.Kind, e.Msg)
}

func (e *ConstructionError) Unwrap() error { return ErrConstruction }
