// Package store defines interfaces for data persistence operations.
// These interfaces keep the scoring engine and services independent of the
// underlying database, and document the sentinel errors each operation
// can return.
package store
