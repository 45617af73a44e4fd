package cache

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// SettleKey addresses the settled form of an input pile.
	SettleKey(inputHash string) string

	// AnalysisKey addresses the stability report of a settled pile.
	AnalysisKey(settledHash string, opts AnalysisKeyOpts) string

	// RenderKey addresses a rendered artifact of a settled pile.
	RenderKey(settledHash string, opts RenderKeyOpts) string
}

// AnalysisKeyOpts holds the analysis options that change the report.
type AnalysisKeyOpts struct {
	ChainReaction bool `json:"chain"`
}

// RenderKeyOpts holds the render options that change the artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	View     string `json:"view,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SettleKey(inputHash string) string {
	return hashKey("settle", inputHash)
}

func (DefaultKeyer) AnalysisKey(settledHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", settledHash, opts)
}

func (DefaultKeyer) RenderKey(settledHash string, opts RenderKeyOpts) string {
	return hashKey("render", settledHash, opts)
}
