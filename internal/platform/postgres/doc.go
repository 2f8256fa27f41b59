// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, using the pgx driver
// through database/sql.
package postgres
