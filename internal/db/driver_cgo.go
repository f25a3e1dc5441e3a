//go:build cgosqlite

package db

// Compiled with CGO_ENABLED=1 and -tags cgosqlite. Links the C SQLite
// library, which is noticeably faster on busy registers.

import (
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriverName selects the database/sql driver for the embedded
// register database.
const SQLiteDriverName = "sqlite3"
