// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the postgres schema migrations, ordered by filename.
//
//go:embed *.sql
var FS embed.FS
