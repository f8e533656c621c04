// Package migrations embeds the goose migration scripts for the roster schema.
package migrations

import "embed"

// FS holds the *.sql migrations.
//
//go:embed *.sql
var FS embed.FS
