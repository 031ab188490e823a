// Package cloudsync keeps the local deck store eventually consistent with
// a remote per-user document.
//
// The coordinator observes store change events, debounces them, and pushes
// the full current snapshot to the remote store; on sign-in it pulls the
// remote document and overwrites local state when the remote copy is newer.
// Conflict resolution is whole-snapshot last-write-wins by logical
// timestamp: a deliberate simplification that assumes a single
// authoritative local writer per session. Concurrent edits from two devices
// inside the same debounce window can silently lose one side's changes;
// that is a documented limitation, not a bug.
package cloudsync
