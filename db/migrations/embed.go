package migrations

import "embed"

// FS holds the goose migrations for the Postgres progress backend.
//
//go:embed *.sql
var FS embed.FS
