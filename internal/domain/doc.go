// Package domain contains the core entities of the application: decks of
// term/definition cards and the per-deck study progress records that drive
// study sessions.
//
// The JSON field names on these types are part of the persistence and sync
// wire format. A snapshot serialized here must round-trip byte-compatibly
// through both the local snapshot store and the remote per-user document,
// so struct tags follow the established camelCase format (remainingIds,
// flashcardProgress, updatedAt) and must not be renamed casually.
package domain
