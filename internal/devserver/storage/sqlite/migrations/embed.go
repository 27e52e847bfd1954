package migrations

import "embed"

// FS contains embedded SQLite migrations for bookstore storage.
//
//go:embed *.sql
var FS embed.FS
