package io

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/repository"
)

type document struct {
	Pathways []pathwayDoc `yaml:"pathways"`
	Virtual  []virtualDoc `yaml:"virtual,omitempty"`
}

type pathwayDoc struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
	Hidden     bool      `yaml:"hidden,omitempty"`
	Nodes      []nodeDoc `yaml:"nodes,omitempty"`
	Edges      []edgeDoc `yaml:"edges,omitempty"`
	Endpoints  []string  `yaml:"endpoints,omitempty"`
}

type nodeDoc struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name,omitempty"`
	Type    string   `yaml:"type,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

type edgeDoc struct {
	Start    string   `yaml:"start"`
	End      string   `yaml:"end"`
	Type     string   `yaml:"type,omitempty"`
	Subtypes []string `yaml:"subtypes,omitempty"`
}

type virtualDoc struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name,omitempty"`
	Source string    `yaml:"source"`
	Edges  []edgeRef `yaml:"edges"`
}

type edgeRef struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// ReadRepository decodes a repository document from r.
//
// Errors carry the offending pathway, node or edge. Unknown node types,
// unknown subtypes and malformed documents are INVALID_FORMAT; dangling virtual pathway
// references keep the codes of [repository.Repository.AddVirtual].
func ReadRepository(r io.Reader) (*repository.Repository, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode repository")
	}

	repo := repository.New()
	for _, pd := range doc.Pathways {
		p, err := buildPathway(pd)
		if err != nil {
			return nil, err
		}
		if err := repo.Add(p); err != nil {
			return nil, err
		}
	}
	for _, vd := range doc.Virtual {
		refs := make([]repository.EdgeRef, len(vd.Edges))
		for i, e := range vd.Edges {
			refs[i] = repository.EdgeRef{Start: e.Start, End: e.End}
		}
		if _, err := repo.AddVirtual(vd.ID, vd.Name, vd.Source, refs); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func buildPathway(pd pathwayDoc) (*pathway.Pathway, error) {
	g := pathway.NewGraph(pd.ID)
	for _, n := range pd.Nodes {
		name := n.Name
		if name == "" {
			name = n.ID
		}
		nt := pathway.NodeTypeOther
		if n.Type != "" {
			var ok bool
			if nt, ok = pathway.LookupNodeType(n.Type); !ok {
				return nil, perrors.New(perrors.ErrCodeInvalidFormat, "pathway %s: node %q: unknown type %q", pd.ID, n.ID, n.Type)
			}
		}
		node := pathway.Node{ID: n.ID, Name: name, Type: nt, Aliases: n.Aliases}
		if err := g.AddNode(node); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "pathway %s: node %q", pd.ID, n.ID)
		}
	}
	for _, e := range pd.Edges {
		et := pathway.ParseEdgeType(e.Type)
		edge := pathway.NewEdge(e.Start, e.End)
		if len(e.Subtypes) == 0 {
			edge.AddDescription(pathway.EdgeDescription{Type: et, Subtype: pathway.SubtypeOther})
		}
		for _, name := range e.Subtypes {
			st, ok := pathway.LookupSubtype(name)
			if !ok {
				return nil, perrors.New(perrors.ErrCodeInvalidFormat, "pathway %s: edge %s->%s: unknown subtype %q", pd.ID, e.Start, e.End, name)
			}
			edge.AddDescription(pathway.EdgeDescription{Type: et, Subtype: st})
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "pathway %s: edge %s->%s", pd.ID, e.Start, e.End)
		}
	}
	for _, id := range pd.Endpoints {
		if err := g.AddEndpoint(id); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeNodeNotFound, err, "pathway %s: endpoint %q", pd.ID, id)
		}
	}
	p := pathway.New(pd.ID, pd.Name, g, pd.Categories...)
	p.Hidden = pd.Hidden
	return p, nil
}

// ImportRepository reads the repository document at path.
func ImportRepository(path string) (*repository.Repository, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	repo, err := ReadRepository(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return repo, nil
}

// WriteRepository encodes repo as a repository document. Descriptions owned
// by another pathway are written like local ones.
func WriteRepository(repo *repository.Repository, w io.Writer) error {
	var doc document
	for _, p := range repo.All() {
		pd := pathwayDoc{ID: p.ID, Name: p.Name, Categories: p.Categories, Hidden: p.Hidden}
		if p.Graph != nil {
			for _, n := range p.Graph.Nodes() {
				pd.Nodes = append(pd.Nodes, nodeDoc{ID: n.ID, Name: n.Name, Type: n.Type.String(), Aliases: n.Aliases})
			}
			for _, e := range p.Graph.Edges() {
				pd.Edges = append(pd.Edges, edgeDocs(e)...)
			}
			pd.Endpoints = p.Graph.Endpoints()
		}
		doc.Pathways = append(doc.Pathways, pd)
	}
	for _, v := range repo.VirtualPathways() {
		vd := virtualDoc{ID: v.ID, Name: v.Name, Source: v.Source().ID}
		for _, ref := range v.Refs() {
			vd.Edges = append(vd.Edges, edgeRef{Start: ref.Start, End: ref.End})
		}
		doc.Virtual = append(doc.Virtual, vd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// edgeDocs writes e as one entry per distinct edge type, in order of first
// appearance, so that multi-edges keep every type on re-read.
func edgeDocs(e *pathway.Edge) []edgeDoc {
	var docs []edgeDoc
	at := make(map[pathway.EdgeType]int)
	for _, d := range e.Descriptions() {
		i, ok := at[d.Type]
		if !ok {
			i = len(docs)
			at[d.Type] = i
			docs = append(docs, edgeDoc{Start: e.Start, End: e.End, Type: d.Type.String()})
		}
		docs[i].Subtypes = append(docs[i].Subtypes, d.Subtype.Name)
	}
	if len(docs) == 0 {
		docs = append(docs, edgeDoc{Start: e.Start, End: e.End})
	}
	return docs
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
