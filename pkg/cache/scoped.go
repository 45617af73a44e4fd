package cache

// ScopedKeyer prefixes every key of an inner Keyer. The pipeline scopes keys
// by release so a new binary never reads entries written by an old one:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SettleKey(inputHash string) string {
	return k.prefix + k.inner.SettleKey(inputHash)
}

func (k *ScopedKeyer) AnalysisKey(settledHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(settledHash, opts)
}

func (k *ScopedKeyer) RenderKey(settledHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(settledHash, opts)
}
