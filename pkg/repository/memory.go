package repository

import (
	"context"
	"sync"
	"time"

	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
)

// Memory is an in-process [GraphRepository], the test and library
// default. It holds every stored artifact and dataset graph in maps
// guarded by a mutex; nothing is persisted across process restarts.
type Memory struct {
	mu       sync.RWMutex
	byNode   map[string]Artifact // key: projectID + "/" + dagNodeID
	byGraph  map[string]*graph.Graph
	byDataset map[string]*graph.Graph
}

// NewMemory returns an empty in-process repository.
func NewMemory() *Memory {
	return &Memory{
		byNode:    make(map[string]Artifact),
		byGraph:   make(map[string]*graph.Graph),
		byDataset: make(map[string]*graph.Graph),
	}
}

func nodeKey(projectID, dagNodeID string) string { return projectID + "/" + dagNodeID }

// LoadGraphByDagNode implements GraphRepository.
func (m *Memory) LoadGraphByDagNode(_ context.Context, projectID, dagNodeID string) (*graph.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	art, ok := m.byNode[nodeKey(projectID, dagNodeID)]
	if !ok {
		return nil, nil
	}
	return art.Graph, nil
}

// LoadGraphByID implements GraphRepository. Storing under a dag node id
// also registers the graph under its own Name so a Graph plan node
// (which references a graph id directly, not a dag node) can hydrate
// it.
func (m *Memory) LoadGraphByID(_ context.Context, graphID string) (*graph.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byGraph[graphID], nil
}

// StoreGraphForDagNode implements GraphRepository.
func (m *Memory) StoreGraphForDagNode(_ context.Context, projectID, dagNodeID string, g *graph.Graph, annotations []string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byNode[nodeKey(projectID, dagNodeID)] = Artifact{
		DAGNodeID:   dagNodeID,
		Name:        g.Name,
		Graph:       g,
		Annotations: annotations,
		Status:      status,
		ComputedAt:  time.Now(),
	}
	if g != nil {
		m.byGraph[g.Name] = g
	}
	return nil
}

// LoadDatasetGraph implements GraphRepository.
func (m *Memory) LoadDatasetGraph(_ context.Context, datasetID string) (*graph.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byDataset[datasetID], nil
}

// PutDatasetGraph registers g as the materialized graph for datasetID,
// so that LoadDatasetGraph returns it.
func (m *Memory) PutDatasetGraph(datasetID string, g *graph.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDataset[datasetID] = g
}

// SelectIDs implements GraphRepository.
func (m *Memory) SelectIDs(_ context.Context, graphID string, target filter.Target, cfg filter.Config) (map[string]struct{}, error) {
	m.mu.RLock()
	g := m.byGraph[graphID]
	m.mu.RUnlock()
	return selectIDsFromGraph(g, target, cfg)
}

var _ GraphRepository = (*Memory)(nil)
