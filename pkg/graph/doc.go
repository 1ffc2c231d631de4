// Package graph provides the in-memory labeled-property graph model shared
// by every other core package: transforms, the query filter compiler, the
// merge resolver, the Plan DAG executor, and the render preparation stage.
//
// # Core Types
//
//   - [Graph]: a named value with nodes, edges, layers, and an annotation log
//   - [Node]: a flow entity or a partition (container) entity
//   - [Edge]: a directed, weighted connection between two node ids
//   - [Layer]: a named style bucket referenced by nodes and edges
//
// # Invariants
//
// [VerifyIntegrity] enumerates violations of the five structural invariants:
// unique node ids, resolvable edge endpoints, partition-only belongs_to
// targets, an acyclic belongs_to forest, and positive weights. Every
// exported constructor ([New]) starts from an empty, trivially valid graph;
// callers are responsible for calling [VerifyIntegrity] after bulk loading
// or merging before handing a graph to a transform.
//
// # Serialization
//
// [Graph] carries both `json` and `bson` struct tags on every field so it
// can round-trip through the JSON dataset source and the bbolt and Mongo
// graph repositories using the same struct. The render exporters encode
// their own wire shapes instead.
package graph
