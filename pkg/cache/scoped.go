package cache

// ScopedKeyer wraps a Keyer with a prefix so that several projects can share
// one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(inputHash, opts)
}

// SimulationKey generates a prefixed simulation key.
func (k *ScopedKeyer) SimulationKey(inputHash string, opts SimulationKeyOpts) string {
	return k.prefix + k.inner.SimulationKey(inputHash, opts)
}
