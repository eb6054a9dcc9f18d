package dag

// Graph is a directed graph whose nodes are the integers [0, Len()).
// It is not safe for concurrent mutation; the analyses only read it.
type Graph struct {
	// succ[n] lists the successors of n in insertion order.
	succ [][]int
}

// CycleError reports a cycle found by DetectCycles. Node is one of the
// nodes on the cycle.
type CycleError struct {
	Node int
}
