package cache

// Keyer builds cache keys for engine results.
type Keyer interface {
	// AnalysisKey returns the key of a MITHrIL result for the given input hash.
	AnalysisKey(inputHash string, opts AnalysisKeyOpts) string
	// SimulationKey returns the key of a PHENSIM result for the given input hash.
	SimulationKey(inputHash string, opts SimulationKeyOpts) string
}

// AnalysisKeyOpts are the MITHrIL options that change the result.
type AnalysisKeyOpts struct {
	Repetitions     int    `json:"repetitions"`
	Seed            uint64 `json:"seed"`
	Combiner        string `json:"combiner"`
	Adjuster        string `json:"adjuster"`
	WeightComputer  string `json:"weight_computer"`
	SkipNodePValues bool   `json:"skip_node_pvalues"`
}

// SimulationKeyOpts are the PHENSIM options that change the result.
// Workers is absent: results do not depend on it.
type SimulationKeyOpts struct {
	Repetitions    int     `json:"repetitions"`
	Simulations    int     `json:"simulations"`
	Seed           uint64  `json:"seed"`
	Epsilon        float64 `json:"epsilon"`
	Smoothing      float64 `json:"smoothing"`
	Distribution   string  `json:"distribution"`
	Estimator      string  `json:"estimator"`
	Adjuster       string  `json:"adjuster"`
	WeightComputer string  `json:"weight_computer"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return hashKey("mithril", inputHash, opts)
}

// SimulationKey implements Keyer.
func (DefaultKeyer) SimulationKey(inputHash string, opts SimulationKeyOpts) string {
	return hashKey("phensim", inputHash, opts)
}
