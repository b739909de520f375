package pathway

import (
	"errors"
	"math"
	"slices"
	"testing"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func chain(t *testing.T, pairs ...[2]string) *Graph {
	t.Helper()
	g := NewGraph("p")
	for _, p := range pairs {
		if _, err := g.Connect(p[0], p[1], EdgeTypePPrel, SubtypeActivation); err != nil {
			t.Fatalf("Connect(%s, %s) error: %v", p[0], p[1], err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := NewGraph("p")
	if err := g.AddNode(Node{ID: "a", Type: NodeTypeGene}); err != nil {
		t.Fatalf("AddNode() error: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(duplicate) = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge_AutoCreatesNodes(t *testing.T) {
	g := NewGraph("p")
	if _, err := g.Connect("a", "b", EdgeTypePPrel, SubtypeActivation); err != nil {
		t.Fatal(err)
	}
	n, ok := g.Node("b")
	if !ok || n.Type != NodeTypeOther {
		t.Errorf("Node(b) = %v, %v, want auto-created other node", n, ok)
	}
	if _, err := g.AddEdge(&Edge{Start: "", End: "b"}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddEdge(empty start) = %v, want ErrInvalidNodeID", err)
	}
}

func TestAddEdge_MergesMultiEdge(t *testing.T) {
	g := NewGraph("p1")
	_, _ = g.Connect("a", "b", EdgeTypePPrel, SubtypeActivation)
	_, _ = g.Connect("a", "b", EdgeTypePPrel, SubtypePhosphorylation)
	e, _ := g.Connect("a", "b", EdgeTypePPrel, SubtypeActivation)

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !e.IsMultiEdge() || e.DescriptionCount() != 2 {
		t.Errorf("DescriptionCount() = %d, want 2", e.DescriptionCount())
	}
	for _, d := range e.Descriptions() {
		if d.Owner != "p1" {
			t.Errorf("description owner = %q, want p1", d.Owner)
		}
	}
	primary, _ := e.PrimaryDescription()
	if primary.Subtype != SubtypeActivation {
		t.Errorf("PrimaryDescription() = %v, want activation", primary.Subtype.Name)
	}
}

func TestAddEdge_KeepsForeignOwner(t *testing.T) {
	g := NewGraph("p1")
	e, _ := g.AddEdge(NewEdge("a", "b", EdgeDescription{Type: EdgeTypeGErel, Subtype: SubtypeExpression, Owner: "p2"}))
	if got := e.Descriptions()[0].Owner; got != "p2" {
		t.Errorf("Owner = %q, want p2", got)
	}
}

func TestRemoveNode(t *testing.T) {
	g := chain(t, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"b", "b"}, [2]string{"c", "a"})
	if err := g.AddEndpoint("b"); err != nil {
		t.Fatal(err)
	}
	g.RemoveNode("b")

	if g.HasNode("b") || g.IsEndpoint("b") {
		t.Error("node b still present after RemoveNode")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Children("a"); len(got) != 0 {
		t.Errorf("Children(a) = %v, want none", got)
	}
	if got := g.Parents("c"); len(got) != 0 {
		t.Errorf("Parents(c) = %v, want none", got)
	}
	g.RemoveNode("missing")
}

func TestDegreesAndSources(t *testing.T) {
	g := chain(t, [2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"c", "b"})
	tests := []struct {
		id      string
		in, out int
	}{
		{"a", 0, 2},
		{"b", 2, 0},
		{"c", 1, 1},
		{"x", 0, 0},
	}
	for _, tt := range tests {
		if g.InDegree(tt.id) != tt.in || g.OutDegree(tt.id) != tt.out {
			t.Errorf("degrees(%s) = %d/%d, want %d/%d", tt.id, g.InDegree(tt.id), g.OutDegree(tt.id), tt.in, tt.out)
		}
	}
	if got := ids(g.Sources()); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Sources() = %v, want [a]", got)
	}
	if got := ids(g.Nodes()); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Nodes() = %v, want [a b c]", got)
	}
	var pairs []string
	for _, e := range g.Edges() {
		pairs = append(pairs, e.Start+e.End)
	}
	if !slices.Equal(pairs, []string{"ab", "ac", "cb"}) {
		t.Errorf("Edges() = %v, want [ab ac cb]", pairs)
	}
}

func TestFindByAlias(t *testing.T) {
	g := NewGraph("p")
	_ = g.AddNode(Node{ID: "hsa:7157", Name: "TP53", Aliases: []string{"TP53", "P53"}})
	n, ok := g.FindByAlias("P53")
	if !ok || n.ID != "hsa:7157" {
		t.Errorf("FindByAlias(P53) = %v, %v", n, ok)
	}
	if _, ok := g.FindByAlias("MDM2"); ok {
		t.Error("FindByAlias(MDM2) found a node")
	}
}

func TestEndpoints(t *testing.T) {
	g := chain(t, [2]string{"a", "b"})
	if err := g.AddEndpoint("z"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("AddEndpoint(z) = %v, want ErrNodeNotFound", err)
	}
	_ = g.AddEndpoint("b")
	if got := g.Endpoints(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Endpoints() = %v, want [b]", got)
	}
}

func TestUpstreamDownstream(t *testing.T) {
	g := chain(t, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"b", "d"}, [2]string{"x", "c"})

	down, err := g.Downstream("a")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(down); !slices.Equal(got, []string{"b", "c", "d"}) {
		t.Errorf("Downstream(a) = %v, want [b c d]", got)
	}
	up, _ := g.Upstream("c")
	if got := ids(up); !slices.Equal(got, []string{"b", "a", "x"}) {
		t.Errorf("Upstream(c) = %v, want [b a x]", got)
	}
	if _, err := g.Downstream("missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Downstream(missing) = %v, want ErrNodeNotFound", err)
	}
}

func TestDownstream_CycleIncludesStart(t *testing.T) {
	g := chain(t, [2]string{"a", "b"}, [2]string{"b", "a"})
	down, _ := g.Downstream("a")
	if got := ids(down); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Downstream(a) = %v, want [b a]", got)
	}
}

func TestWalkDownstream_PruneAndStop(t *testing.T) {
	g := chain(t, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "d"}, [2]string{"d", "e"})

	var seen []string
	err := g.WalkDownstream("a", func(n *Node) VisitResult {
		seen = append(seen, n.ID)
		if n.ID == "b" {
			return Prune
		}
		return Continue
	})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(seen, []string{"b", "d", "e"}) {
		t.Errorf("pruned walk = %v, want [b d e]", seen)
	}

	seen = nil
	_ = g.WalkDownstream("a", func(n *Node) VisitResult {
		seen = append(seen, n.ID)
		return Stop
	})
	if !slices.Equal(seen, []string{"b"}) {
		t.Errorf("stopped walk = %v, want [b]", seen)
	}
}

func TestCountCache_InvalidatedOnChange(t *testing.T) {
	g := chain(t, [2]string{"a", "b"})
	if n, _ := g.CountDownstream("a"); n != 1 {
		t.Fatalf("CountDownstream(a) = %d, want 1", n)
	}
	_, _ = g.Connect("b", "c", EdgeTypePPrel, SubtypeActivation)
	if n, _ := g.CountDownstream("a"); n != 2 {
		t.Errorf("CountDownstream(a) after change = %d, want 2", n)
	}
	if n, _ := g.CountUpstream("c"); n != 2 {
		t.Errorf("CountUpstream(c) = %d, want 2", n)
	}
	if _, err := g.CountUpstream("missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("CountUpstream(missing) = %v, want ErrNodeNotFound", err)
	}
}

func TestEdgeWeight(t *testing.T) {
	desc := func(s EdgeSubtype) EdgeDescription { return EdgeDescription{Type: EdgeTypePPrel, Subtype: s} }
	tests := []struct {
		name  string
		descs []EdgeDescription
		want  float64
	}{
		{"empty", nil, 0},
		{"single activation", []EdgeDescription{desc(SubtypeActivation)}, 1},
		{"single inhibition", []EdgeDescription{desc(SubtypeInhibition)}, -1},
		{"single neutral", []EdgeDescription{desc(SubtypeBindingAssociation)}, 0},
		{"activation and neutral", []EdgeDescription{desc(SubtypeActivation), desc(SubtypePhosphorylation)}, 1},
		{"two inhibitions", []EdgeDescription{desc(SubtypeInhibition), desc(SubtypeRepression)}, -1},
		{"majority activation", []EdgeDescription{desc(SubtypeActivation), desc(SubtypeExpression), desc(SubtypeInhibition)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEdge("a", "b", tt.descs...)
			got, err := e.Weight(SubtypeWeight)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Weight() = %v, want %v", got, tt.want)
			}
			if got < -1 || got > 1 {
				t.Errorf("Weight() = %v outside [-1, 1]", got)
			}
		})
	}
}

func TestEdgeWeight_CancellingMultiEdgeIsNaN(t *testing.T) {
	e := NewEdge("a", "b",
		EdgeDescription{Type: EdgeTypePPrel, Subtype: SubtypeActivation},
		EdgeDescription{Type: EdgeTypePPrel, Subtype: SubtypeInhibition},
	)
	got, err := e.Weight(SubtypeWeight)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got) {
		t.Errorf("Weight() = %v, want NaN", got)
	}
}

func TestEdgeWeight_NoComputer(t *testing.T) {
	e := NewEdge("a", "b", EdgeDescription{Subtype: SubtypeActivation})
	_, err := e.Weight(nil)
	if !errors.Is(err, ErrNoWeightComputer) {
		t.Errorf("Weight(nil) = %v, want ErrNoWeightComputer", err)
	}
	if perrors.GetCode(err) != perrors.ErrCodeInvalidConfig {
		t.Errorf("GetCode() = %v, want %v", perrors.GetCode(err), perrors.ErrCodeInvalidConfig)
	}
}

func TestWeightComputerByName(t *testing.T) {
	wc, err := WeightComputerByName("")
	if err != nil || wc == nil {
		t.Fatalf("WeightComputerByName(\"\") = %v, %v", wc, err)
	}
	sign, _ := WeightComputerByName("sign")
	if got := sign.Contribution(EdgeDescription{Subtype: EdgeSubtype{Weight: -0.3}}); got != -1 {
		t.Errorf("sign contribution = %v, want -1", got)
	}
	if _, err := WeightComputerByName("bogus"); perrors.GetCode(err) != perrors.ErrCodeInvalidStrategy {
		t.Errorf("WeightComputerByName(bogus) = %v, want INVALID_STRATEGY", err)
	}
}

func TestParseTypes(t *testing.T) {
	if got := ParseNodeType(" MiRNA "); got != NodeTypeMiRNA || got.Sign() != -1 {
		t.Errorf("ParseNodeType(MiRNA) = %v (sign %v)", got, got.Sign())
	}
	if got := ParseNodeType("protein"); got != NodeTypeOther || got.Sign() != 0 {
		t.Errorf("ParseNodeType(protein) = %v", got)
	}
	if got := ParseEdgeType("GErel"); got != EdgeTypeGErel {
		t.Errorf("ParseEdgeType(GErel) = %v", got)
	}
	if s, ok := LookupSubtype("Binding/Association"); !ok || s != SubtypeBindingAssociation {
		t.Errorf("LookupSubtype(Binding/Association) = %v, %v", s, ok)
	}
	if _, ok := LookupSubtype("teleportation"); ok {
		t.Error("LookupSubtype(teleportation) found a subtype")
	}
}
