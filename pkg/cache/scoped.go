package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools (or several
// users of one Redis instance) can share a backend without key collisions.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "slfkit:")
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

// TargetKey generates a prefixed target key.
func (k *ScopedKeyer) TargetKey(sourceHash string, opts ConvertKeyOpts) string {
	return k.prefix + k.inner.TargetKey(sourceHash, opts)
}

// StatsKey generates a prefixed stats key.
func (k *ScopedKeyer) StatsKey(sourceHash string, opts ConvertKeyOpts) string {
	return k.prefix + k.inner.StatsKey(sourceHash, opts)
}
