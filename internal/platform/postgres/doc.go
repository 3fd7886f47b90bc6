// Package postgres implements the store interfaces on top of PostgreSQL.
// Each store works against store.DBTX so the same implementation serves both
// a connection pool and an open transaction.
package postgres
