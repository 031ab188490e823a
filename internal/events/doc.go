// Package events provides the change-notification channel between the
// local store and its observers. The store emits a StateChangeEvent after
// every mutation; the sync coordinator subscribes to schedule debounced
// pushes without the store knowing anything about sync.
package events
