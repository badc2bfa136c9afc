// Package types defines the field, record and table entities of a linktable
// store, its configuration, and the sentinel errors shared by all packages.
//
// A table declares a schema of text and link fields. Link fields come in
// mirrored pairs: a link field in table A names a linked table B and the
// reciprocal field in B that points back at it.
package types
