package repository

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
)

var (
	bucketArtifacts = []byte("artifacts")
	bucketGraphs    = []byte("graphs")
	bucketDatasets  = []byte("datasets")
)

// bboltArtifact is Artifact's on-disk shape; graph.Graph already carries
// json tags, so it nests directly.
type bboltArtifact struct {
	DAGNodeID    string       `json:"dag_node_id"`
	Name         string       `json:"name"`
	Graph        *graph.Graph `json:"graph"`
	Annotations  []string     `json:"annotations"`
	Status       Status       `json:"status"`
	ComputedAt   time.Time    `json:"computed_at"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// BBolt is an embedded, single-file [GraphRepository], the store the CLI
// opens when a --repo path is given (spec's "may be row-based SQL or
// in-memory" — bbolt is the zero-dependency embedded middle ground
// between the two).
type BBolt struct {
	db *bolt.DB
}

// OpenBBolt opens (creating if absent) a bbolt database at path and
// ensures its buckets exist.
func OpenBBolt(path string) (*BBolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "bbolt", err,
			"open database at %q", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketArtifacts, bucketGraphs, bucketDatasets} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "bbolt", err,
			"initialize buckets")
	}
	return &BBolt{db: db}, nil
}

// Close releases the underlying file handle.
func (r *BBolt) Close() error { return r.db.Close() }

// LoadGraphByDagNode implements GraphRepository.
func (r *BBolt) LoadGraphByDagNode(_ context.Context, projectID, dagNodeID string) (*graph.Graph, error) {
	var art *bboltArtifact
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketArtifacts).Get([]byte(nodeKey(projectID, dagNodeID)))
		if data == nil {
			return nil
		}
		var a bboltArtifact
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		art = &a
		return nil
	})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, "bbolt", err,
			"load artifact for %s/%s", projectID, dagNodeID)
	}
	if art == nil {
		return nil, nil
	}
	return art.Graph, nil
}

// LoadGraphByID implements GraphRepository.
func (r *BBolt) LoadGraphByID(_ context.Context, graphID string) (*graph.Graph, error) {
	return r.loadGraphFromBucket(bucketGraphs, graphID, "graph")
}

// LoadDatasetGraph implements GraphRepository.
func (r *BBolt) LoadDatasetGraph(_ context.Context, datasetID string) (*graph.Graph, error) {
	return r.loadGraphFromBucket(bucketDatasets, datasetID, "dataset")
}

func (r *BBolt) loadGraphFromBucket(bucket []byte, id, where string) (*graph.Graph, error) {
	var g *graph.Graph
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		var loaded graph.Graph
		if err := json.Unmarshal(data, &loaded); err != nil {
			return err
		}
		g = &loaded
		return nil
	})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, where, err, "load %q", id)
	}
	return g, nil
}

// StoreGraphForDagNode implements GraphRepository.
func (r *BBolt) StoreGraphForDagNode(_ context.Context, projectID, dagNodeID string, g *graph.Graph, annotations []string, status Status) error {
	art := bboltArtifact{
		DAGNodeID:   dagNodeID,
		Graph:       g,
		Annotations: annotations,
		Status:      status,
		ComputedAt:  time.Now(),
	}
	if g != nil {
		art.Name = g.Name
	}
	data, err := json.Marshal(art)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "bbolt", err, "marshal artifact")
	}

	var graphData []byte
	if g != nil {
		graphData, err = json.Marshal(g)
		if err != nil {
			return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "bbolt", err, "marshal graph")
		}
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketArtifacts).Put([]byte(nodeKey(projectID, dagNodeID)), data); err != nil {
			return err
		}
		if g != nil {
			if err := tx.Bucket(bucketGraphs).Put([]byte(g.Name), graphData); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "bbolt", err,
			"store artifact for %s/%s", projectID, dagNodeID)
	}
	return nil
}

// SelectIDs implements GraphRepository.
func (r *BBolt) SelectIDs(ctx context.Context, graphID string, target filter.Target, cfg filter.Config) (map[string]struct{}, error) {
	g, err := r.LoadGraphByID(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return selectIDsFromGraph(g, target, cfg)
}

var _ GraphRepository = (*BBolt)(nil)
