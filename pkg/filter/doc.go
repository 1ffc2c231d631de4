// Package filter implements the query-builder filter compiler from spec
// §4.3: a tree of combinator groups with leaf predicates over node/edge/
// layer fields (including JSON-path attributes), compiled into a
// parameterized selection and then applied to an in-memory [graph.Graph]
// with an include/exclude + link-pruning policy.
//
// The compiler itself never reads a Graph's collections directly — that
// isolation is what lets [pkg/repository] implementations back the same
// [RuleGroup] with a SQL WHERE clause, a BoltDB scan, or (as the in-memory
// reference repository does) a direct call into [EvaluateNodes],
// [EvaluateEdges], and [EvaluateLayers].
package filter
