// Package executor runs a Plan DAG (pkg/plan) to completion against a
// [repository.GraphRepository] and a [dataset.Source], per spec §4.5/
// §5/§6.
//
// [Executor.ExecutePlan] walks the DAG in topological order, applying
// each node's operation (transform.ApplySequence, filter.Apply,
// merge.Resolve, render.Export) against the graphs its upstreams
// produced, persisting each node's output and emitting a
// [ProgressEvent] as it goes. Failures are fail-fast within the
// dependency chain they occur in (every downstream node is marked
// skipped) and fail-soft across independent chains (unrelated
// branches keep executing), matching the teacher's
// cache-check-then-compute-then-store staging in
// pkg/pipeline/runner.go.
//
// [Executor.PreviewGraph], [Executor.ExportNodeOutput], and
// [Executor.ValidatePlanDAG] are the remaining three External
// Interfaces operations from spec §6.
package executor
