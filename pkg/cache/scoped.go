package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate namespaces to
// runs that share one backend (for example several flows on one Redis).
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "flow:signoff:")
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

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(designHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(designHash, opts)
}
