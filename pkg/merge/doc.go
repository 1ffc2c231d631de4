// Package merge implements the N-way union of upstream graphs described
// in spec §4.4: first-writer-wins attribute accumulation across sources,
// with uniqueness and endpoint-closure checks that surface cross-source
// consistency failures instead of silently producing a broken graph.
package merge
