package migrations

import "embed"

// FS contains the embedded SQLite migrations for the score ledger.
//
//go:embed *.sql
var FS embed.FS
