//go:build !cgosqlite

package db

// Compiled by default. The pure Go driver needs no C toolchain and
// cross-compiles to whatever hardware runs the register.
// Build with -tags cgosqlite to switch to the cgo driver instead.

import (
	_ "modernc.org/sqlite"
)

// SQLiteDriverName selects the database/sql driver for the embedded
// register database.
const SQLiteDriverName = "sqlite"
