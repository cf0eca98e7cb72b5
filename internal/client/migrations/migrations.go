// Package migrations embeds the SQL schema of the local client cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
