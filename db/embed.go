// Package db provides embedded seed data.
package db

import _ "embed"

// CatalogJSON is the item catalog seed, decoded into the in-memory catalog
// store at startup.
//
//go:embed catalog.json
var CatalogJSON []byte
