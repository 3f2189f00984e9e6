package cache

// ResultKeyOpts are the run options that change an improvement result.
type ResultKeyOpts struct {
	Seed                uint64 `json:"seed"`
	MaxDisplacementX    int    `json:"max_disp_x"`
	MaxDisplacementY    int    `json:"max_disp_y"`
	DisallowOneSiteGaps bool   `json:"disallow_one_site_gaps"`
	Script              string `json:"script"`
	TimeLimitMillis     int64  `json:"time_limit_ms,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key of the result of improving the design with
	// content hash designHash under opts.
	ResultKey(designHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces "result:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(designHash string, opts ResultKeyOpts) string {
	return hashKey("result", designHash, opts)
}
