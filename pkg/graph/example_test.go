package graph_test

import (
	"fmt"

	"github.com/matzehuels/graphmorph/pkg/graph"
)

func ExampleGraph_compound() {
	// A cluster holding two nodes, and a node outside it.
	g := graph.New[string, string]()
	_ = g.SetNode("cluster", "services")
	_ = g.SetNode("api", "API")
	_ = g.SetNode("db", "Database")
	_ = g.SetNode("client", "Client")
	_ = g.SetParent("api", "cluster")
	_ = g.SetParent("db", "cluster")
	_ = g.SetEdge("client", "api", "", "https")
	_ = g.SetEdge("api", "db", "", "sql")

	fmt.Println("Top level:", g.Children(""))
	fmt.Println("In cluster:", g.Children("cluster"))
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Top level: [cluster client]
	// In cluster: [api db]
	// Edges: 2
}

func ExampleGraph_RemoveNode() {
	g := graph.New[struct{}, struct{}]()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.SetNode(id, struct{}{})
	}
	_ = g.SetEdge("a", "b", "", struct{}{})
	_ = g.SetEdge("b", "c", "", struct{}{})

	// Removing b drops both of its edges.
	g.RemoveNode("b")
	fmt.Println("Nodes:", g.Nodes())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: [a c]
	// Edges: 0
}
