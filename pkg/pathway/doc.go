// Package pathway provides the directed multigraph used to model biological
// signaling pathways.
//
// # Overview
//
// A [Graph] holds typed [Node] values connected by [Edge] values. Each
// ordered node pair has at most one edge; further relations between the same
// pair are merged into that edge as additional [EdgeDescription] entries,
// making it a multi-edge. Descriptions remember the pathway that contributed
// them (their owner), which keeps merged graphs traceable.
//
// # Basic Usage
//
//	g := pathway.NewGraph("hsa04115")
//	g.AddNode(pathway.Node{ID: "TP53", Type: pathway.NodeTypeGene})
//	g.Connect("ATM", "TP53", pathway.EdgeTypePPrel, pathway.SubtypeActivation)
//	p := pathway.New("hsa04115", "p53 signaling", g, "Cellular Processes")
//
// Adding an edge creates missing endpoint nodes automatically.
//
// # Weights
//
// Edge weights are computed by an injected [WeightComputer]. A single
// description contributes its weight directly; multi-edges sum their
// contributions and divide by the absolute sum, which places the result in
// [-1, 1] for any non-zero sum. Strategies are registered by name; see
// [WeightComputerByName].
//
// # Traversal
//
// [Graph.Upstream] and [Graph.Downstream] return all reachable nodes using
// an explicit-stack DFS. [Graph.WalkUpstream] and [Graph.WalkDownstream]
// accept a [Visitor] that may return [Continue], [Prune] or [Stop].
//
// # Concurrency
//
// Graphs are built once and then treated as immutable. Read-only access from
// multiple goroutines is safe, with the exception of the lazily cached
// reachability counters.
package pathway
