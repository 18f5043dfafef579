// Package migrations embeds the SQL schema migrations for the resume ledger
// database. Goose applies them on every open; already-applied versions are
// skipped.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
