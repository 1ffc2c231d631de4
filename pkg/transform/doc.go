// Package transform implements the pure Graph→Graph transform algebra: a
// catalog of total functions, each taking a local copy of a graph and
// swapping it in only on success, appending a human-readable annotation
// describing its effect.
//
// Transforms are expressed as a single tagged variant ([Spec]) dispatched
// by [Apply] — adding a new transform is an addition to the [Kind] catalog
// and a pure function, no base type required.
package transform
