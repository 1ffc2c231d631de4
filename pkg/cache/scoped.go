package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces
// between independent executions or projects sharing one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. The prefix is prepended to
// every generated key. If inner is nil, [NewDefaultKeyer] is used.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey generates a prefixed key for a node's materialized graph.
func (k *ScopedKeyer) GraphKey(dagNodeID string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(dagNodeID, opts)
}

// DatasetKey generates a prefixed key for a hydrated dataset graph.
func (k *ScopedKeyer) DatasetKey(datasetID string) string {
	return k.prefix + k.inner.DatasetKey(datasetID)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(dagNodeID string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dagNodeID, opts)
}
