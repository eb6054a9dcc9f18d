// Package dag holds a small directed graph over dense integer node ids and
// the analyses the shape compiler needs: cycle detection, post-order
// traversal and strongly connected components.
package dag
