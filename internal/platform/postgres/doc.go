// Package postgres provides the PostgreSQL implementation of the remote
// document store used by cloud sync. It handles the details of database
// connections, query execution, and mapping between the domain snapshot
// and the persisted JSONB document.
package postgres
