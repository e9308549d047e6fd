package appfs

import "embed"

// FS holds the SQL migrations (per database engine) and the email templates.
//go:embed migrations all:templates
var FS embed.FS

// MigrationsDir returns the migrations directory of a database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}
