// Package database handles database connections, scoped sessions and
// schema inspection.
//
// It provides a wrapper around GORM to configure either an embedded SQLite
// store (the default, using the pure Go modernc driver) or a MySQL server.
//
// # Connect
//
// Connect opens the configured database, applies pool settings and pings
// it. SQLite pools are limited to one connection.
//
// # Scoped sessions
//
// Scoped wraps exactly one unit of work (a bootstrap load or one update
// cycle) in a transaction that is committed on every exit path. A failure
// half way through a batch therefore keeps the mutations that completed
// before it. While a session is open on SQLite, all statements must go
// through the session's tx; the single pooled connection is held by it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	err = database.Scoped(ctx, db, log, func(tx *gorm.DB) error {
//	    return repo.WithTx(tx).Insert(ctx, rec)
//	})
package database
