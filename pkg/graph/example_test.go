package graph_test

import (
	"fmt"

	"github.com/matzehuels/slfkit/pkg/graph"
)

func ExampleBuildAdjacency() {
	g := graph.New(3)
	_ = g.AddEdge(graph.Edge{Src: 0, Dst: 1, Label: 1, HasLabel: true})
	_ = g.AddEdge(graph.Edge{Src: 1, Dst: 2, Label: 1, HasLabel: true})

	adj := graph.BuildAdjacency(g, false)
	for v := range adj {
		fmt.Println(v, adj.Neighbors(v))
	}
	// Output:
	// 0 [1]
	// 1 [0 2]
	// 2 [1]
}
