// Package gokuzu provides Go bindings and an OGM for the Kuzu embedded
// graph database.
//
// Define your graph schema as Go structs with struct tags, and get type-safe
// CRUD operations, a chainable query builder, schema migrations, and code
// generation without writing raw Cypher.
//
// The module is organized into six packages:
//
//   - [github.com/CaliLuke/go-kuzu/cypher] — Cypher AST nodes and compiler
//   - [github.com/CaliLuke/go-kuzu/gograph] — OGM core: models, CRUD, queries, migrations
//   - [github.com/CaliLuke/go-kuzu/ddlgen] — Code generator: Kuzu DDL to Go structs
//   - [github.com/CaliLuke/go-kuzu/kuzu] — CGo bindings to the Kuzu C API (requires CGo)
//   - [github.com/CaliLuke/go-kuzu/kuzusql] — database/sql driver over the bindings
//   - [github.com/CaliLuke/go-kuzu/replay] — recorded query results for engine-free tests
//
// The cypher, gograph, ddlgen, and replay packages compile and test without
// CGo or the native library. Only the kuzu and kuzusql packages require the
// Kuzu shared or static library.
package gokuzu
