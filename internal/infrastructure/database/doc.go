// Package database provides MariaDB database connectivity for Dolphin Core.
//
// This package manages:
//   - Connection pooling and lifecycle management over go-sql-driver/mysql
//   - Schema migrations loaded from an embedded filesystem
//   - A HealthCheck ping of the connection
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Each migration file has both a .up.sql and a .down.sql, named
// YYYYMMDD_HHMMSS_description.{up,down}.sql. Migrations are applied in
// filename order and recorded in schema_migrations so Migrate is safe to
// call on every startup.
package database
