// Package plan models the Plan DAG: the seven-variant node catalog from
// spec §4.5, its validation (edge endpoints, upstream-count contracts,
// acyclicity), topological ordering for the executor, and the legacy
// v1→v2 schema migration for Transform and Filter node configs.
//
// As with [transform.Kind] and [render.Target], node variants are a
// tagged enum dispatched by a single switch rather than an interface
// hierarchy — adding a variant is a catalog entry, not a new type.
package plan
