// Package migrations embeds the goose SQL migrations for every supported
// SQL dialect. Each dialect lives in its own directory of Migrations.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

const (
	DirPostgres = "postgres"
	DirSQLite   = "sqlite"
)
