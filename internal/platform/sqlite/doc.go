// Package sqlite provides a local, file-backed implementation of the
// review log store using the pure Go modernc.org/sqlite driver. The CLI
// uses it so reviews can be recorded without a database server.
package sqlite
