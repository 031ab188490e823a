// Package sqlite implements local durable persistence of the store
// snapshot as a single-row SQLite table. The snapshot is serialized as
// JSON alongside a schema version tag, read once at startup, and replaced
// after every mutation.
package sqlite
