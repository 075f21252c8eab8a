// Package storage provides audit storage backends: SQLite for production
// use and an in-memory implementation for tests.
package storage
