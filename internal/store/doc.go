// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the review logic, so the same service runs against postgres on the
// server and sqlite in the command-line tool.
package store
