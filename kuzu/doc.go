// Package kuzu provides cgo bindings to the Kuzu embedded graph database.
//
// All engine-touching code builds behind the cgo and kuzu build tags:
//
//	CGO_ENABLED=1 go build -tags kuzu ./...
//
// Three link modes select where libkuzu comes from:
//
//   - default (no extra tag): links the library vendored under the
//     package's include/ and lib/ directories
//   - kuzu_prebuilt: links a prebuilt library installed under /usr/local
//   - kuzu_system: links a system-installed libkuzu via pkg-config
//
// Without the tags the package still compiles: the value types
// (InternalID, Node, Relationship, RecursiveRel, DataTypeID,
// SystemConfig) and error types are tag-free so that higher layers such
// as kuzusql and the shell can reference them in engine-free builds.
package kuzu
