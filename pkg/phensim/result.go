package phensim

// Entry is the result of one node or pathway.
type Entry struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Virtual bool   `json:"virtual,omitempty"`

	// Perturbation is the mean simulated value in the observed replicate.
	Perturbation float64 `json:"perturbation"`

	Score
	AdjustedPValue          float64 `json:"adjusted_pvalue"`
	AdjustedEmpiricalPValue float64 `json:"adjusted_empirical_pvalue"`
}

// Result is the outcome of a simulation. Nodes are ordered by ID; pathways
// list real pathways by ID followed by virtual pathways by ID.
type Result struct {
	Nodes    []Entry `json:"nodes"`
	Pathways []Entry `json:"pathways"`

	Replicates       int `json:"replicates"` // null replicates requested
	FailedReplicates int `json:"failed_replicates"`
	Simulations      int `json:"simulations"`
}

// Node returns the entry of a node.
func (r *Result) Node(id string) (*Entry, bool) { return find(r.Nodes, id) }

// Pathway returns the entry of a pathway.
func (r *Result) Pathway(id string) (*Entry, bool) { return find(r.Pathways, id) }

func find(entries []Entry, id string) (*Entry, bool) {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], true
		}
	}
	return nil, false
}
