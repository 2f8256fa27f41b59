// Package migrations embeds the goose SQL migrations for every supported
// database and applies them with a goose provider.
package migrations

import "embed"

// FS holds one directory of migrations per dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
