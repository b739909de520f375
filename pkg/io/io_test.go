package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/phensim"
	"github.com/pathwaylab/pathsim/pkg/repository"
)

const sampleRepository = `
pathways:
  - id: p1
    name: Signaling
    categories: [signal]
    nodes:
      - {id: a, name: A, type: gene}
      - {id: m, type: mirna, aliases: [mir-1]}
    edges:
      - {start: a, end: b, type: pprel, subtypes: [activation]}
      - {start: m, end: a, type: mgrel, subtypes: [mirna_inhibition]}
      - {start: b, end: c, type: pprel, subtypes: [binding/association, inhibition]}
    endpoints: [c]
  - id: p2
    hidden: true
    edges:
      - {start: x, end: y}
virtual:
  - id: v1
    name: Core
    source: p1
    edges:
      - {start: a, end: b}
`

func TestReadRepository(t *testing.T) {
	repo, err := ReadRepository(strings.NewReader(sampleRepository))
	if err != nil {
		t.Fatalf("ReadRepository: %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("Len = %d, want 2", repo.Len())
	}

	p1, ok := repo.Get("p1")
	if !ok {
		t.Fatal("p1 missing")
	}
	if p1.Name != "Signaling" || !p1.InCategory("signal") {
		t.Errorf("p1 = %+v", p1)
	}
	if n, _ := p1.Graph.Node("m"); n.Type != pathway.NodeTypeMiRNA || !n.HasAlias("mir-1") || n.Name != "m" {
		t.Errorf("node m = %+v", n)
	}
	if n, _ := p1.Graph.Node("b"); n.Type != pathway.NodeTypeOther {
		t.Errorf("auto-created node b type = %v", n.Type)
	}
	e, ok := p1.Graph.Edge("b", "c")
	if !ok || e.DescriptionCount() != 2 {
		t.Fatalf("edge b->c = %+v", e)
	}
	for _, d := range e.Descriptions() {
		if d.Owner != "p1" || d.Type != pathway.EdgeTypePPrel {
			t.Errorf("description = %+v", d)
		}
	}
	if got := p1.Graph.Endpoints(); len(got) != 1 || got[0] != "c" {
		t.Errorf("Endpoints = %v", got)
	}

	p2, _ := repo.Get("p2")
	if !p2.Hidden {
		t.Error("p2 should be hidden")
	}
	d, _ := p2.Graph.Edge("x", "y")
	if pd, _ := d.PrimaryDescription(); pd.Subtype != pathway.SubtypeOther {
		t.Errorf("default subtype = %v", pd.Subtype)
	}

	v, ok := repo.Virtual("v1")
	if !ok || v.Source() != p1 || len(v.NodeIDs()) != 2 {
		t.Errorf("virtual v1 = %+v", v)
	}
}

func TestReadRepositoryJSON(t *testing.T) {
	doc := `{"pathways": [{"id": "p", "edges": [{"start": "a", "end": "b", "subtypes": ["expression"]}]}]}`
	repo, err := ReadRepository(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadRepository: %v", err)
	}
	p, _ := repo.Get("p")
	if p.Graph.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", p.Graph.EdgeCount())
	}
}

func TestReadRepositoryEmpty(t *testing.T) {
	repo, err := ReadRepository(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadRepository: %v", err)
	}
	if repo.Len() != 0 {
		t.Errorf("Len = %d, want 0", repo.Len())
	}
}

func TestReadRepositoryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code perrors.Code
	}{
		{"malformed", "pathways: [", perrors.ErrCodeInvalidFormat},
		{"unknown subtype", "pathways:\n  - id: p\n    edges:\n      - {start: a, end: b, subtypes: [teleport]}\n", perrors.ErrCodeInvalidFormat},
		{"unknown node type", "pathways:\n  - id: p\n    nodes: [{id: a, type: protien}]\n", perrors.ErrCodeInvalidFormat},
		{"duplicate node", "pathways:\n  - id: p\n    nodes: [{id: a}, {id: a}]\n", perrors.ErrCodeInvalidFormat},
		{"missing endpoint", "pathways:\n  - id: p\n    endpoints: [z]\n", perrors.ErrCodeNodeNotFound},
		{"bad virtual source", "pathways: []\nvirtual:\n  - {id: v, source: nope, edges: []}\n", perrors.ErrCodePathwayNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRepository(strings.NewReader(tt.doc))
			if !perrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWriteRepositoryRoundTrip(t *testing.T) {
	repo, err := ReadRepository(strings.NewReader(sampleRepository))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteRepository(repo, &buf); err != nil {
		t.Fatalf("WriteRepository: %v", err)
	}
	again, err := ReadRepository(&buf)
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, buf.String())
	}

	p, _ := again.Get("p1")
	if p.Graph.NodeCount() != 4 || p.Graph.EdgeCount() != 3 {
		t.Errorf("p1 nodes=%d edges=%d", p.Graph.NodeCount(), p.Graph.EdgeCount())
	}
	e, _ := p.Graph.Edge("b", "c")
	if e.DescriptionCount() != 2 {
		t.Errorf("b->c descriptions = %d, want 2", e.DescriptionCount())
	}
	if _, ok := again.Virtual("v1"); !ok {
		t.Error("virtual pathway lost")
	}
	if q, _ := again.Get("p2"); !q.Hidden {
		t.Error("hidden flag lost")
	}
}

func TestReadRepositoryUntypedNodes(t *testing.T) {
	doc := "pathways:\n  - id: p\n    nodes: [{id: a}, {id: b, type: GENE}]\n    edges:\n      - {start: a, end: c}\n"
	repo, err := ReadRepository(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadRepository: %v", err)
	}
	p, _ := repo.Get("p")
	for id, want := range map[string]pathway.NodeType{"a": pathway.NodeTypeOther, "b": pathway.NodeTypeGene, "c": pathway.NodeTypeOther} {
		n, ok := p.Graph.Node(id)
		if !ok {
			t.Errorf("node %s missing", id)
			continue
		}
		if n.Type != want {
			t.Errorf("node %s type = %v, want %v", id, n.Type, want)
		}
	}
	if n, _ := p.Graph.Node("a"); n.Type.Sign() != 0 {
		t.Errorf("untyped node sign = %v, want 0", n.Type.Sign())
	}
}

func TestWriteRepositoryMixedEdgeTypes(t *testing.T) {
	g := pathway.NewGraph("p")
	_, err := g.AddEdge(pathway.NewEdge("a", "b",
		pathway.EdgeDescription{Type: pathway.EdgeTypePPrel, Subtype: pathway.SubtypeActivation},
		pathway.EdgeDescription{Type: pathway.EdgeTypeGErel, Subtype: pathway.SubtypeExpression},
	))
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.New()
	if err := repo.Add(pathway.New("p", "mixed", g)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteRepository(repo, &buf); err != nil {
		t.Fatalf("WriteRepository: %v", err)
	}
	again, err := ReadRepository(&buf)
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, buf.String())
	}
	p, _ := again.Get("p")
	if p.Graph.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", p.Graph.EdgeCount())
	}
	e, _ := p.Graph.Edge("a", "b")
	got := make(map[pathway.EdgeType]string)
	for _, d := range e.Descriptions() {
		got[d.Type] = d.Subtype.Name
	}
	want := map[pathway.EdgeType]string{pathway.EdgeTypePPrel: "activation", pathway.EdgeTypeGErel: "expression"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("descriptions = %v, want %v", got, want)
	}
}

func TestImportRepositoryMissingFile(t *testing.T) {
	_, err := ImportRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadExpression(t *testing.T) {
	in := "gene\tlogFC\n# comment\na\t1.5\n\nb\t-2\n"
	expr, err := ReadExpression(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadExpression: %v", err)
	}
	if len(expr) != 2 || expr["a"] != 1.5 || expr["b"] != -2 {
		t.Errorf("expr = %v", expr)
	}
}

func TestReadExpressionErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few fields", "a\n"},
		{"bad value", "a\t1\nb\tx\n"},
		{"duplicate", "a\t1\na\t2\n"},
		{"non-finite", "a\tNaN\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadExpression(strings.NewReader(tt.in))
			if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadConstraints(t *testing.T) {
	in := "a\tUP\nb\tdown\t-2.5\nc\tUNCHANGED\n"
	cs, err := ReadConstraints(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadConstraints: %v", err)
	}
	want := map[string]phensim.Constraint{
		"a": {Direction: phensim.Up},
		"b": {Direction: phensim.Down, Value: -2.5},
		"c": {Direction: phensim.Unchanged},
	}
	if len(cs) != len(want) {
		t.Fatalf("got %d constraints, want %d", len(cs), len(want))
	}
	for id, c := range want {
		if cs[id] != c {
			t.Errorf("%s = %+v, want %+v", id, cs[id], c)
		}
	}

	if _, err := ReadConstraints(strings.NewReader("a\tsideways\n")); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("bad direction err = %v", err)
	}
}

func TestReadNodeList(t *testing.T) {
	ids, err := ReadNodeList(strings.NewReader("b\na\textra\n# skip\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("ids = %v", ids)
	}
}

func TestImportTabular(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expr.tsv")
	if err := os.WriteFile(path, []byte("a\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	expr, err := ImportExpression(path)
	if err != nil || expr["a"] != 1 {
		t.Errorf("ImportExpression = %v, %v", expr, err)
	}
	if _, err := ImportConstraints(filepath.Join(dir, "none.tsv")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("ImportConstraints err = %v", err)
	}
	if _, err := ImportNodeList(filepath.Join(dir, "none.tsv")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("ImportNodeList err = %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(map[string]int{"a": 1}, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"a\": 1\n}\n" {
		t.Errorf("output = %q", data)
	}
}
