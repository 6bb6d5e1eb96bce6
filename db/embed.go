// Package db embeds the catalog schema so deployments need no external
// migration files.
package db

import _ "embed"

// Schema holds the DDL for the products and api_keys tables.
//
//go:embed migrations/001_schema.sql
var Schema string
