// Package cache provides the executor's materialization cache: content
// addressed storage for computed graphs and rendered artifacts, keyed by
// DAG node id plus the parameters that affect the output.
//
// [Cache] is the storage interface; [Keyer] derives deterministic keys
// from a DAG node id and its relevant options so that two executions with
// identical inputs hit the same cache entries (§4.5, §8 property 9).
package cache

import (
	"context"
	"time"
)

// TTL defaults for each cache tier.
const (
	TTLGraph    = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLDataset  = time.Hour
)

// Cache is a byte-oriented store for materialized graphs and artifacts.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value for key, or hit=false if absent or
	// expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key with the given time-to-live. A zero ttl
	// means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key if present; it is not an error if key is absent.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// GraphKeyOpts parameterizes a computed-graph cache key beyond the DAG
// node id: the upstream graph hashes feeding the node, so a changed
// upstream invalidates the entry even though the node id is unchanged.
type GraphKeyOpts struct {
	UpstreamHashes []string
	OperationHash  string
}

// ArtifactKeyOpts parameterizes a rendered-artifact cache key.
type ArtifactKeyOpts struct {
	Format       string
	RenderConfig string
}

// Keyer derives cache keys for the executor's three cache tiers: computed
// graphs per DAG node, hydrated datasets per dataset id, and rendered
// artifacts per Artefact node.
type Keyer interface {
	// GraphKey returns the cache key for a node's materialized graph.
	GraphKey(dagNodeID string, opts GraphKeyOpts) string
	// DatasetKey returns the cache key for a hydrated dataset graph.
	DatasetKey(datasetID string) string
	// ArtifactKey returns the cache key for a rendered artifact.
	ArtifactKey(dagNodeID string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer] implementation: graph and artifact
// keys are SHA-256 over the JSON-marshaled key components; dataset keys
// are the plain "dataset:" prefix plus the dataset id.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey implements Keyer.
func (k *DefaultKeyer) GraphKey(dagNodeID string, opts GraphKeyOpts) string {
	return hashKey("graph:"+dagNodeID, opts)
}

// DatasetKey implements Keyer.
func (k *DefaultKeyer) DatasetKey(datasetID string) string {
	return "dataset:" + datasetID
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(dagNodeID string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+dagNodeID, opts)
}
