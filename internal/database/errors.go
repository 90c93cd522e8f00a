// Package database provides connection setup for MariaDB and Redis.
// This file holds driver-level error helpers shared by repositories.
package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL/MariaDB error number for a unique key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// IsDuplicateEntry reports whether err is a unique-constraint violation.
// Repositories use this to turn benign create races ("someone else inserted
// the same row first") into a re-read instead of a hard failure.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
