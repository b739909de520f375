package pathway

import (
	"math"
	"slices"
)

// Node is a pathway entity: a gene, compound, miRNA or other element.
// Identity is the ID; two nodes with the same ID are the same node.
type Node struct {
	ID      string   // Unique identifier (e.g. "hsa:7157")
	Name    string   // Display name
	Type    NodeType // Entity kind; determines the accumulation sign
	Aliases []string // Alternative identifiers
}

// HasAlias reports whether id is the node's ID or one of its aliases.
func (n *Node) HasAlias(id string) bool {
	return n.ID == id || slices.Contains(n.Aliases, id)
}

// EdgeDescription describes one relation carried by an edge.
// Owner is the pathway that contributed the relation; it is empty until
// the description is added to a graph with an owner. Descriptions are
// comparable and equality includes the owner.
type EdgeDescription struct {
	Type    EdgeType
	Subtype EdgeSubtype
	Owner   string
}

// Edge is a directed connection Start→End carrying an ordered set of unique
// descriptions. An edge with more than one description is a multi-edge.
type Edge struct {
	Start string
	End   string

	descriptions []EdgeDescription
}

// NewEdge creates an edge with the given descriptions. Duplicates are dropped.
func NewEdge(start, end string, descs ...EdgeDescription) *Edge {
	e := &Edge{Start: start, End: end}
	for _, d := range descs {
		e.AddDescription(d)
	}
	return e
}

// AddDescription appends d unless an equal description is already present.
// Returns true if the description was added.
func (e *Edge) AddDescription(d EdgeDescription) bool {
	if slices.Contains(e.descriptions, d) {
		return false
	}
	e.descriptions = append(e.descriptions, d)
	return true
}

// Descriptions returns a copy of the edge's descriptions in insertion order.
func (e *Edge) Descriptions() []EdgeDescription { return slices.Clone(e.descriptions) }

// DescriptionCount returns the number of descriptions on the edge.
func (e *Edge) DescriptionCount() int { return len(e.descriptions) }

// IsMultiEdge reports whether the edge carries more than one description.
func (e *Edge) IsMultiEdge() bool { return len(e.descriptions) > 1 }

// PrimaryDescription returns the description whose subtype has the highest
// priority. Ties keep the earliest description. Returns false for an edge
// without descriptions.
func (e *Edge) PrimaryDescription() (EdgeDescription, bool) {
	if len(e.descriptions) == 0 {
		return EdgeDescription{}, false
	}
	best := e.descriptions[0]
	for _, d := range e.descriptions[1:] {
		if d.Subtype.Priority > best.Subtype.Priority {
			best = d
		}
	}
	return best, true
}

// Weight computes the edge weight using wc.
//
// A single description yields its contribution directly. For a multi-edge
// the contributions are summed and divided by the absolute value of the sum,
// so a sum that cancels to exactly zero yields NaN. Callers that propagate
// weights drop non-finite terms.
//
// Returns an INVALID_CONFIG error when wc is nil.
func (e *Edge) Weight(wc WeightComputer) (float64, error) {
	if wc == nil {
		return 0, ErrNoWeightComputer
	}
	switch len(e.descriptions) {
	case 0:
		return 0, nil
	case 1:
		return wc.Contribution(e.descriptions[0]), nil
	}
	var sum float64
	for _, d := range e.descriptions {
		sum += wc.Contribution(d)
	}
	return sum / math.Abs(sum), nil
}
