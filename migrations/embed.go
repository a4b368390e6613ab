// Package migrations embeds the schema migrations for every supported dialect.
// Each dialect lives in its own directory, named after config.Dialect* values.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS
