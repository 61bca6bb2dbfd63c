package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The HTTP server scopes its keys so that a Redis instance shared with batch
// runs keeps the two populations separable.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// CircleKey generates a prefixed key for circle caching.
func (k *ScopedKeyer) CircleKey(trackHash string, opts CircleKeyOpts) string {
	return k.prefix + k.inner.CircleKey(trackHash, opts)
}

// ArtifactKey generates a prefixed key for plot caching.
func (k *ScopedKeyer) ArtifactKey(trackHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(trackHash, opts)
}
