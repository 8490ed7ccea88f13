// Package migrations embeds the SQL migration files into the binary so
// the ingester can run migrations without the .sql files present on the
// filesystem.
package migrations

import (
	"embed"

	"github.com/wacker23/dolphin-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
