package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
)

// mongoArtifact is the BSON document shape stored per (projectID,
// dagNodeID). graph.Node/Edge/Layer already carry bson tags
// (pkg/graph/types.go) precisely so they nest here without a parallel
// DTO.
type mongoArtifact struct {
	Key          string       `bson:"_id"`
	ProjectID    string       `bson:"project_id"`
	DAGNodeID    string       `bson:"dag_node_id"`
	Graph        *graph.Graph `bson:"graph"`
	Annotations  []string     `bson:"annotations"`
	Status       Status       `bson:"status"`
	ComputedAt   time.Time    `bson:"computed_at"`
	ErrorMessage string       `bson:"error_message,omitempty"`
}

type mongoGraphDoc struct {
	Key   string       `bson:"_id"`
	Graph *graph.Graph `bson:"graph"`
}

// Mongo is a [GraphRepository] backed by a MongoDB collection, storing
// graphs as BSON documents keyed by DAG node id (or graph/dataset id),
// activated by a CLI flag rather than the default.
type Mongo struct {
	artifacts *mongo.Collection
	graphs    *mongo.Collection
	datasets  *mongo.Collection
}

// NewMongo wraps the three collections this repository uses within db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		artifacts: db.Collection("plan_artifacts"),
		graphs:    db.Collection("graphs"),
		datasets:  db.Collection("dataset_graphs"),
	}
}

// LoadGraphByDagNode implements GraphRepository.
func (r *Mongo) LoadGraphByDagNode(ctx context.Context, projectID, dagNodeID string) (*graph.Graph, error) {
	var doc mongoArtifact
	err := r.artifacts.FindOne(ctx, bson.M{"_id": nodeKey(projectID, dagNodeID)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, "mongo", err,
			"load artifact for %s/%s", projectID, dagNodeID)
	}
	return doc.Graph, nil
}

// LoadGraphByID implements GraphRepository.
func (r *Mongo) LoadGraphByID(ctx context.Context, graphID string) (*graph.Graph, error) {
	return r.loadGraphDoc(ctx, r.graphs, graphID, "graph")
}

// LoadDatasetGraph implements GraphRepository.
func (r *Mongo) LoadDatasetGraph(ctx context.Context, datasetID string) (*graph.Graph, error) {
	return r.loadGraphDoc(ctx, r.datasets, datasetID, "dataset")
}

func (r *Mongo) loadGraphDoc(ctx context.Context, coll *mongo.Collection, id, where string) (*graph.Graph, error) {
	var doc mongoGraphDoc
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, where, err, "load %q", id)
	}
	return doc.Graph, nil
}

// StoreGraphForDagNode implements GraphRepository.
func (r *Mongo) StoreGraphForDagNode(ctx context.Context, projectID, dagNodeID string, g *graph.Graph, annotations []string, status Status) error {
	key := nodeKey(projectID, dagNodeID)
	doc := mongoArtifact{
		Key:         key,
		ProjectID:   projectID,
		DAGNodeID:   dagNodeID,
		Graph:       g,
		Annotations: annotations,
		Status:      status,
		ComputedAt:  time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.artifacts.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "mongo", err,
			"store artifact for %s/%s", projectID, dagNodeID)
	}
	if g != nil {
		gdoc := mongoGraphDoc{Key: g.Name, Graph: g}
		if _, err := r.graphs.ReplaceOne(ctx, bson.M{"_id": g.Name}, gdoc, opts); err != nil {
			return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, "mongo", err,
				"store graph %q", g.Name)
		}
	}
	return nil
}

// SelectIDs implements GraphRepository.
func (r *Mongo) SelectIDs(ctx context.Context, graphID string, target filter.Target, cfg filter.Config) (map[string]struct{}, error) {
	g, err := r.LoadGraphByID(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return selectIDsFromGraph(g, target, cfg)
}

var _ GraphRepository = (*Mongo)(nil)
