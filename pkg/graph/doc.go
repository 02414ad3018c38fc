// Package graph provides an ordered, compound, directed multigraph.
//
// # Overview
//
// Clustered graph drawings need three things from their graph store: nodes
// that can be nested inside other nodes (clusters), parallel edges between
// the same endpoints distinguished by a name, and a stable iteration order so
// that the same sequence of mutations always produces the same drawing.
// [Graph] provides all three.
//
// # Basic Usage
//
//	g := graph.New[string, int]()
//	g.SetNode("cluster", "outer")
//	g.SetNode("a", "inner")
//	g.SetParent("a", "cluster")
//	g.SetEdge("a", "cluster", "", 1)
//
// Nodes and edges carry typed values. [Graph.SetNode] and [Graph.SetEdge]
// insert or replace; replacing keeps the element's position in iteration
// order. [Graph.RemoveNode] also removes every incident edge and detaches the
// node's children.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Callers that share one across
// goroutines must synchronize access themselves.
package graph
