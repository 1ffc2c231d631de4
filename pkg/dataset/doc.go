// Package dataset provides the external Dataset Source collaborator
// described in spec §6: `read_dataset(dataset_id) → Graph`, invoked
// lazily by DataSet plan nodes (pkg/plan).
//
// Two reference implementations ship so the executor and CLI are
// runnable without an external dataset catalog:
//
//   - [CSVSource] reads the three-file nodes.csv/edges.csv/layers.csv
//     convention from a directory named after the dataset id, grounded
//     on original_source's graph_io/csv_io.rs.
//   - [JSONSource] reads a single JSON file per dataset id, grounded on
//     the teacher's pkg/io/import.go.
//
// Both stamp the returned graph's Node/Edge/Layer Dataset field with
// the dataset id, the provenance the Merge Resolver's composite edge
// key (§4.4) and first-writer-wins attribute accumulation rely on.
package dataset
