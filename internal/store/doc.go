// Package store contains the local deck store: the single source of truth
// for all deck and study-progress state.
//
// Every mutation goes through DeckStore, which serializes mutations behind
// a mutex, advances the logical clock, writes the snapshot through to local
// durable storage, and emits a change event for observers. The store is the
// only writer of the snapshot's UpdatedAt field.
package store
