// Package repository defines the Graph Repository external-collaborator
// contract from spec §4.7 and ships three implementations: an in-process
// [Memory] store (the test default, and the CLI's store when no --repo
// path is given), an embedded [BBolt] store (the CLI's store for a
// --repo path), and a [Mongo] store backed by the BSON document driver.
//
// The core only depends on the [GraphRepository] interface; which
// implementation is wired in is a CLI/deployment concern, not a core
// one.
package repository
