// Package migrations holds the goose SQL migrations for the planner database.
package migrations

import "embed"

// FS contains every migration file in this directory.
//
//go:embed *.sql
var FS embed.FS
