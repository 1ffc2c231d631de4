// Package pkg provides the core libraries for Layercake, a
// graph-modeling workbench: it ingests tabular/structured node-edge-
// layer data, composes Plan DAGs of transforms/filters/merges over a
// labeled-property graph, and renders the result to diagram/export
// formats.
//
// # Overview
//
// The pkg directory is organized around the data flow of spec §2:
//
//  1. Graph data model and invariants ([graph])
//  2. Pure Graph→Graph transform algebra ([transform])
//  3. Query-builder filter compiler ([filter])
//  4. Multi-source merge resolver ([merge])
//  5. Plan DAG model and validation ([plan])
//  6. DAG executor and materialization cache ([executor], [cache])
//  7. Render preparation and exporters ([render])
//  8. Storage/dataset collaborators ([repository], [dataset])
//
// # Architecture
//
// The typical data flow through Layercake:
//
//	Dataset Source / Graph Repository
//	         ↓
//	    [plan] package (Plan DAG: DataSet/Graph/Transform/Filter/Merge/Artefact nodes)
//	         ↓
//	    [executor] package (topological walk, memoization, annotations)
//	         ↓
//	    [transform] / [filter] / [merge] packages (pure Graph→Graph operations)
//	         ↓
//	    [render] package (view preparation + format exporters)
//	         ↓
//	    DOT/GML/JSON/CSV/Mermaid/PlantUML/custom output
//
// # Quick Start
//
// Execute a Plan DAG against an in-memory repository and a CSV dataset source:
//
//	import (
//	    "context"
//	    "github.com/layercake-project/layercake/pkg/dataset"
//	    "github.com/layercake-project/layercake/pkg/executor"
//	    "github.com/layercake-project/layercake/pkg/plan"
//	    "github.com/layercake-project/layercake/pkg/render"
//	    "github.com/layercake-project/layercake/pkg/repository"
//	    "github.com/layercake-project/layercake/pkg/transform"
//	)
//
//	repo := repository.NewMemory()
//	src := dataset.CSVSource{Root: "./datasets"}
//	exec := executor.New(repo, src)
//
//	d := plan.DAG{
//	    Nodes: map[string]plan.Node{
//	        "ds": {ID: "ds", Kind: plan.KindDataSet, DatasetID: "ds1"},
//	        "xf": {ID: "xf", Kind: plan.KindTransform, Transforms: []transform.Spec{
//	            {Kind: transform.KindAggregateEdges},
//	        }},
//	        "out": {ID: "out", Kind: plan.KindGraphArtefact, RenderTarget: render.TargetJSON},
//	    },
//	    Edges: []plan.Edge{{From: "ds", To: "xf"}, {From: "xf", To: "out"}},
//	}
//
//	handle, _ := exec.ExecutePlan(context.Background(), "proj1", d)
//	results := handle.Wait()
//
// # Main Packages
//
// ## Graph Model
//
// [graph] - The labeled-property graph itself: Node, Edge, Layer,
// invariant checks ([graph.VerifyIntegrity]), the flow/hierarchy view
// split, and the derived hierarchy tree (spec §3, §4.1).
//
// ## Transform Algebra
//
// [transform] - Pure `Graph → Graph` operations: partition depth/width
// limits, label truncation/wrapping, drop-unconnected, invert,
// generate-hierarchy, layer aggregation, edge aggregation (spec §4.2).
//
// ## Query Filter Compiler
//
// [filter] - Compiles a [filter.RuleGroup] tree of combinators and leaf
// predicates into a selection evaluated against node/edge/layer fields,
// including JSON-path attributes, with include/exclude and
// link-pruning policy (spec §4.3).
//
// ## Merge Resolver
//
// [merge] - N-way union of upstream graphs under first-writer-wins
// attribute merge with project-wide id uniqueness and edge-endpoint
// closure checks (spec §4.4).
//
// ## Plan DAG & Executor
//
// [plan] - The typed Plan DAG: node variants, topological ordering,
// cycle detection, and legacy v1→v2 config migration (spec §3, §4.5,
// §9).
//
// [executor] - Schedules a Plan DAG in topological order, materializing
// and memoizing each node's graph, propagating annotations, and
// exposing the four spec §6 operations: ExecutePlan, PreviewGraph,
// ExportNodeOutput, ValidatePlanDAG.
//
// [cache] - The executor's content-addressed materialization cache for
// computed graphs, hydrated datasets, and rendered artifacts.
//
// ## Rendering
//
// [render] - View preparation (flow/hierarchy split, layer palette
// resolution, per-dataset style overrides) plus the format exporters:
// JSON, CSV (nodes/edges/matrix), DOT, GML, Mermaid (+ mindmap/
// treemap), PlantUML (+ mindmap/WBS), JS-Graph, and custom templates
// (spec §4.6).
//
// ## Storage & Datasets
//
// [repository] - The [repository.GraphRepository] interface (spec
// §4.7) plus in-memory, bbolt, and MongoDB reference implementations.
//
// [dataset] - The [dataset.Source] interface (spec §6) plus CSV and
// single-file JSON reference implementations.
//
// ## Errors
//
// [errors] - The structured error taxonomy of spec §7: Kind, Code,
// and the {kind, where, message, details} payload shape.
//
// [graph]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/graph
// [transform]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/transform
// [filter]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/filter
// [merge]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/merge
// [plan]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/plan
// [executor]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/executor
// [cache]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/cache
// [render]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/render
// [repository]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/repository
// [dataset]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/dataset
// [errors]: https://pkg.go.dev/github.com/layercake-project/layercake/pkg/errors
package pkg
