package pathway

import "strings"

// NodeType classifies a pathway node. Each type carries a sign used when
// accumulating perturbation deltas: inhibitory types count negatively.
type NodeType int

const (
	// NodeTypeOther is an unclassified node. It does not contribute to accumulation.
	NodeTypeOther NodeType = iota
	// NodeTypeGene is a gene or gene product.
	NodeTypeGene
	// NodeTypeCompound is a small molecule or metabolite.
	NodeTypeCompound
	// NodeTypeMiRNA is a microRNA. MicroRNAs repress their targets.
	NodeTypeMiRNA
	// NodeTypeMap is a link to another pathway map.
	NodeTypeMap
	// NodeTypeGroup is a complex of other nodes.
	NodeTypeGroup
	// NodeTypeOrtholog is an ortholog group entry.
	NodeTypeOrtholog
)

var nodeTypeNames = map[NodeType]string{
	NodeTypeOther:    "other",
	NodeTypeGene:     "gene",
	NodeTypeCompound: "compound",
	NodeTypeMiRNA:    "mirna",
	NodeTypeMap:      "map",
	NodeTypeGroup:    "group",
	NodeTypeOrtholog: "ortholog",
}

var nodeTypeSigns = map[NodeType]float64{
	NodeTypeOther:    0,
	NodeTypeGene:     1,
	NodeTypeCompound: 1,
	NodeTypeMiRNA:    -1,
	NodeTypeMap:      0,
	NodeTypeGroup:    1,
	NodeTypeOrtholog: 1,
}

// Sign returns the accumulation sign of the node type.
func (t NodeType) Sign() float64 { return nodeTypeSigns[t] }

// String returns the lowercase name of the node type.
func (t NodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return "other"
}

// ParseNodeType converts a name to a NodeType. Unknown names map to
// NodeTypeOther. Matching is case-insensitive.
func ParseNodeType(s string) NodeType {
	t, _ := LookupNodeType(s)
	return t
}

// LookupNodeType is ParseNodeType that also reports whether the name is
// known.
func LookupNodeType(s string) (NodeType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range nodeTypeNames {
		if name == s {
			return t, true
		}
	}
	return NodeTypeOther, false
}

// EdgeType is the broad class of a pathway relation.
type EdgeType int

const (
	EdgeTypeOther   EdgeType = iota
	EdgeTypeECrel            // enzyme-enzyme relation
	EdgeTypePPrel            // protein-protein interaction
	EdgeTypeGErel            // gene expression interaction
	EdgeTypePCrel            // protein-compound interaction
	EdgeTypeMaplink          // link to another map
	EdgeTypeMGrel            // miRNA-gene relation
)

var edgeTypeNames = map[EdgeType]string{
	EdgeTypeOther:   "other",
	EdgeTypeECrel:   "ecrel",
	EdgeTypePPrel:   "pprel",
	EdgeTypeGErel:   "gerel",
	EdgeTypePCrel:   "pcrel",
	EdgeTypeMaplink: "maplink",
	EdgeTypeMGrel:   "mgrel",
}

// String returns the lowercase name of the edge type.
func (t EdgeType) String() string {
	if s, ok := edgeTypeNames[t]; ok {
		return s
	}
	return "other"
}

// ParseEdgeType converts a name to an EdgeType. Unknown names map to EdgeTypeOther.
func ParseEdgeType(s string) EdgeType {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range edgeTypeNames {
		if name == s {
			return t
		}
	}
	return EdgeTypeOther
}

// EdgeSubtype is the specific meaning of a relation. Weight is its signed
// influence (+1 activating, -1 inhibiting, 0 neutral) and Priority orders
// subtypes when a multi-edge needs a single representative.
type EdgeSubtype struct {
	Name     string
	Weight   float64
	Priority int
}

// Known subtypes.
var (
	SubtypeActivation         = EdgeSubtype{Name: "activation", Weight: 1, Priority: 10}
	SubtypeInhibition         = EdgeSubtype{Name: "inhibition", Weight: -1, Priority: 10}
	SubtypeExpression         = EdgeSubtype{Name: "expression", Weight: 1, Priority: 9}
	SubtypeRepression         = EdgeSubtype{Name: "repression", Weight: -1, Priority: 9}
	SubtypeIndirectEffect     = EdgeSubtype{Name: "indirect_effect", Weight: 0, Priority: 3}
	SubtypeStateChange        = EdgeSubtype{Name: "state_change", Weight: 0, Priority: 2}
	SubtypeBindingAssociation = EdgeSubtype{Name: "binding_association", Weight: 0, Priority: 2}
	SubtypeDissociation       = EdgeSubtype{Name: "dissociation", Weight: 0, Priority: 2}
	SubtypeMissingInteraction = EdgeSubtype{Name: "missing_interaction", Weight: 0, Priority: 1}
	SubtypePhosphorylation    = EdgeSubtype{Name: "phosphorylation", Weight: 0, Priority: 4}
	SubtypeDephosphorylation  = EdgeSubtype{Name: "dephosphorylation", Weight: 0, Priority: 4}
	SubtypeGlycosylation      = EdgeSubtype{Name: "glycosylation", Weight: 0, Priority: 4}
	SubtypeUbiquitination     = EdgeSubtype{Name: "ubiquitination", Weight: 0, Priority: 4}
	SubtypeMethylation        = EdgeSubtype{Name: "methylation", Weight: 0, Priority: 4}
	SubtypeMiRNAInhibition    = EdgeSubtype{Name: "mirna_inhibition", Weight: -1, Priority: 8}
	SubtypeTFMiRNAActivation  = EdgeSubtype{Name: "tfmirna_activation", Weight: 1, Priority: 7}
	SubtypeTFMiRNAInhibition  = EdgeSubtype{Name: "tfmirna_inhibition", Weight: -1, Priority: 7}
	SubtypeCompound           = EdgeSubtype{Name: "compound", Weight: 0, Priority: 1}
	SubtypeHiddenCompound     = EdgeSubtype{Name: "hidden_compound", Weight: 0, Priority: 1}
	SubtypeOther              = EdgeSubtype{Name: "other", Weight: 0, Priority: 0}
)

var subtypes = map[string]EdgeSubtype{}

func init() {
	for _, s := range []EdgeSubtype{
		SubtypeActivation, SubtypeInhibition, SubtypeExpression, SubtypeRepression,
		SubtypeIndirectEffect, SubtypeStateChange, SubtypeBindingAssociation,
		SubtypeDissociation, SubtypeMissingInteraction, SubtypePhosphorylation,
		SubtypeDephosphorylation, SubtypeGlycosylation, SubtypeUbiquitination,
		SubtypeMethylation, SubtypeMiRNAInhibition, SubtypeTFMiRNAActivation,
		SubtypeTFMiRNAInhibition, SubtypeCompound, SubtypeHiddenCompound, SubtypeOther,
	} {
		subtypes[s.Name] = s
	}
}

// LookupSubtype returns the known subtype with the given name.
// Names are normalized: case-insensitive, with spaces, dashes and slashes
// treated as underscores ("binding/association" finds binding_association).
func LookupSubtype(name string) (EdgeSubtype, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)
	s, ok := subtypes[key]
	return s, ok
}
