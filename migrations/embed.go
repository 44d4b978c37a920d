// Package migrations embeds the SQL migration files applied at startup.
package migrations

import "embed"

// FS holds the embedded SQL migration files, consumed by the iofs source
// driver during database initialization.
//
//go:embed *.sql
var FS embed.FS
