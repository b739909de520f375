package mithril

// PathwayResult is the outcome of one real or virtual pathway.
type PathwayResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Virtual bool   `json:"virtual,omitempty"`
	Source  string `json:"source,omitempty"` // source pathway of a virtual pathway

	// Skipped is set for pathways without nodes or edges; their scores
	// keep the trivial defaults.
	Skipped bool `json:"skipped,omitempty"`

	Nodes   int `json:"nodes"`
	DENodes int `json:"de_nodes"`

	Accumulation          float64 `json:"accumulation"`
	CorrectedAccumulation float64 `json:"corrected_accumulation"`
	ImpactFactor          float64 `json:"impact_factor"`

	Probability        float64 `json:"probability"`         // hypergeometric
	NetworkProbability float64 `json:"network_probability"` // empirical
	PValue             float64 `json:"pvalue"`
	AdjustedPValue     float64 `json:"adjusted_pvalue"`

	NodeResults []NodeResult `json:"node_results,omitempty"`
}

// NodeResult is the outcome of one node within a pathway.
type NodeResult struct {
	ID                    string  `json:"id"`
	Expression            float64 `json:"expression"`
	Perturbation          float64 `json:"perturbation"`
	Accumulation          float64 `json:"accumulation"`
	CorrectedAccumulation float64 `json:"corrected_accumulation"`
	PValue                float64 `json:"pvalue"`
}

// Result is the outcome of an analysis. Pathways lists real pathways ordered
// by ID followed by virtual pathways ordered by ID.
type Result struct {
	Pathways    []PathwayResult `json:"pathways"`
	Repetitions int             `json:"repetitions"`
	Universe    int             `json:"universe"`
	DENodes     int             `json:"de_nodes"`
}

// Pathway returns the result of the pathway with the given ID.
func (r *Result) Pathway(id string) (*PathwayResult, bool) {
	for i := range r.Pathways {
		if r.Pathways[i].ID == id {
			return &r.Pathways[i], true
		}
	}
	return nil, false
}

// Node returns the result of a node within the pathway.
func (p *PathwayResult) Node(id string) (*NodeResult, bool) {
	for i := range p.NodeResults {
		if p.NodeResults[i].ID == id {
			return &p.NodeResults[i], true
		}
	}
	return nil, false
}

func trivial(p PathwayResult) PathwayResult {
	p.Probability = 1
	p.NetworkProbability = 1
	p.PValue = 1
	p.AdjustedPValue = 1
	return p
}
