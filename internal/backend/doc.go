// Package backend defines the boundary between the validator and the places
// graphs come from and subgraphs go to.
//
// A Backend imports an edge list from a source and exports a subgraph to a
// destination. Sources and destinations are URIs; the scheme selects the
// backend through a Registry. The core never inspects encoding details, so
// N-Triples files, database tables and object stores are interchangeable.
//
// Backends are contributed by Modules, in the same way the application wires
// every other pluggable component: each Module registers the schemes it
// serves, and the Registry rejects a scheme claimed twice.
package backend
