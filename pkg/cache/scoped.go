package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each tenant of a shared
// backend its own namespace:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(datasetHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(datasetHash, opts)
}

// OrderKey generates a prefixed ordering key.
func (k *ScopedKeyer) OrderKey(prevHash, currHash, ordering string) string {
	return k.prefix + k.inner.OrderKey(prevHash, currHash, ordering)
}
