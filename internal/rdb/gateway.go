package rdb

import (
	"github.com/jmoiron/sqlx"

	"github.com/wacker23/dolphin-core/internal/infrastructure/database"
)

// Gateway is the RDB Gateway. It wraps the shared connection pool with
// sqlx for typed scans and named parameters.
type Gateway struct {
	db *sqlx.DB
}

// New wraps an already-open database.DB in a Gateway.
func New(db *database.DB) *Gateway {
	return &Gateway{db: sqlx.NewDb(db.DB, "mysql")}
}
