// Package migrations embeds the SQL schema for the relational backends.
package migrations

import "embed"

// FS holds one sub-directory of NNN_name.sql files per driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
