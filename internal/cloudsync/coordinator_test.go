package cloudsync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/kuizlet/internal/cloudsync"
	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/events"
	"github.com/phrazzld/kuizlet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory RemoteStore that records every upsert.
type fakeRemote struct {
	mu        sync.Mutex
	doc       *cloudsync.RemoteDocument
	readErr   error
	upsertErr error
	upserts   []*domain.Snapshot
}

func (f *fakeRemote) ReadOne(_ context.Context, _ string) (*cloudsync.RemoteDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.doc == nil {
		return nil, cloudsync.ErrDocumentNotFound
	}
	return f.doc, nil
}

func (f *fakeRemote) Upsert(_ context.Context, _ string, snapshot *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, snapshot)
	f.doc = &cloudsync.RemoteDocument{State: snapshot, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeRemote) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeRemote) lastUpsert() *domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.upserts) == 0 {
		return nil
	}
	return f.upserts[len(f.upserts)-1]
}

// newStoreAt creates an unpersisted DeckStore whose clock starts at the
// given millisecond and advances one millisecond per reading.
func newStoreAt(t *testing.T, startMillis int64, opts ...store.Option) *store.DeckStore {
	t.Helper()
	millis := startMillis
	opts = append(opts, store.WithClock(func() time.Time {
		now := time.UnixMilli(millis)
		millis++
		return now
	}))
	s, err := store.New(context.Background(), nil, nil, opts...)
	require.NoError(t, err)
	return s
}

func TestNilRemoteReportsOffline(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	coord := cloudsync.New(deckStore, nil, nil)

	assert.Equal(t, cloudsync.StatusOffline, coord.Status())
	assert.Equal(t, "Sync disabled", coord.StatusLabel())

	// Sign-in and events must be harmless no-ops.
	coord.HandleSignIn(context.Background(), "user-1")
	coord.HandleStateChange(events.StateChangeEvent{Op: "create_deck", UpdatedAt: 200})
	assert.Equal(t, cloudsync.StatusOffline, coord.Status())
}

func TestSignInLocalNewerKeepsLocalAndPushes(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	deckStore.CreateDeck("Local Deck")
	localClock := deckStore.UpdatedAt()

	remote := &fakeRemote{doc: &cloudsync.RemoteDocument{
		State:     domain.NewSnapshot(50),
		UpdatedAt: time.Now(),
	}}
	coord := cloudsync.New(deckStore, remote, nil)

	coord.HandleSignIn(context.Background(), "user-1")

	decks := deckStore.Decks()
	require.Len(t, decks, 1, "local state survives the pull")
	assert.Equal(t, "Local Deck", decks[0].Title)

	require.Equal(t, 1, remote.upsertCount(), "local wins and is pushed")
	assert.Equal(t, localClock, remote.lastUpsert().UpdatedAt)
	assert.Equal(t, cloudsync.StatusIdle, coord.Status())
}

func TestSignInRemoteNewerOverwritesLocalWithoutPush(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	deckStore := newStoreAt(t, 100, store.WithEmitter(emitter))
	deckStore.CreateDeck("Stale Local Deck")

	remoteState := domain.NewSnapshot(5000)
	remoteDeck := domain.NewDeck("Remote Deck", 4000)
	remoteState.Decks = append(remoteState.Decks, remoteDeck)

	remote := &fakeRemote{doc: &cloudsync.RemoteDocument{
		State:     remoteState,
		UpdatedAt: time.Now(),
	}}

	// The coordinator observes the store, so the hydration write emits a
	// change event back at it; the suppression flag must swallow it.
	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(10*time.Millisecond))
	emitter.RegisterHandler(coord)

	coord.HandleSignIn(context.Background(), "user-1")
	time.Sleep(50 * time.Millisecond)

	decks := deckStore.Decks()
	require.Len(t, decks, 1)
	assert.Equal(t, "Remote Deck", decks[0].Title, "remote state replaces local wholesale")
	assert.Equal(t, int64(5000), deckStore.UpdatedAt())

	assert.Equal(t, 0, remote.upsertCount(), "hydration must not trigger a push")
	assert.Equal(t, cloudsync.StatusIdle, coord.Status())

	syncedAt, ok := coord.LastSyncedAt()
	require.True(t, ok)
	assert.Equal(t, int64(5000), syncedAt)
}

func TestSignInWithoutRemoteDocumentPushesLocal(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	deckStore.CreateDeck("First Deck")

	remote := &fakeRemote{}
	coord := cloudsync.New(deckStore, remote, nil)

	coord.HandleSignIn(context.Background(), "user-1")

	require.Equal(t, 1, remote.upsertCount())
	assert.Equal(t, deckStore.UpdatedAt(), remote.lastUpsert().UpdatedAt)
}

func TestDebounceCoalescesBurstIntoOnePush(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	emitter := events.NewInMemoryEmitter(nil)
	deckStore := newStoreAt(t, 100, store.WithEmitter(emitter))

	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(30*time.Millisecond))
	emitter.RegisterHandler(coord)

	coord.HandleSignIn(context.Background(), "user-1")
	baseline := remote.upsertCount()

	deckStore.CreateDeck("Deck A")
	deckStore.CreateDeck("Deck B")
	deckStore.CreateDeck("Deck C")

	require.Eventually(t, func() bool {
		return remote.upsertCount() == baseline+1
	}, 2*time.Second, 5*time.Millisecond, "burst of edits collapses into one push")

	// No stragglers after the window closes.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, baseline+1, remote.upsertCount())

	assert.Len(t, remote.lastUpsert().Decks, 3, "the push carries the final state")
	assert.Equal(t, deckStore.UpdatedAt(), remote.lastUpsert().UpdatedAt)
}

func TestEventsWhileSignedOutAreIgnored(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	emitter := events.NewInMemoryEmitter(nil)
	deckStore := newStoreAt(t, 100, store.WithEmitter(emitter))

	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(10*time.Millisecond))
	emitter.RegisterHandler(coord)

	deckStore.CreateDeck("Offline Deck")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, remote.upsertCount())
}

func TestSignOutStopsScheduledPush(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	emitter := events.NewInMemoryEmitter(nil)
	deckStore := newStoreAt(t, 100, store.WithEmitter(emitter))

	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(50*time.Millisecond))
	emitter.RegisterHandler(coord)

	coord.HandleSignIn(context.Background(), "user-1")
	baseline := remote.upsertCount()

	deckStore.CreateDeck("Never Synced")
	coord.HandleSignOut()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, baseline, remote.upsertCount(), "sign-out cancels the pending push")
}

func TestPushErrorSetsErrorStatus(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	deckStore.CreateDeck("Deck")

	remote := &fakeRemote{upsertErr: errors.New("boom")}
	coord := cloudsync.New(deckStore, remote, nil)

	coord.HandleSignIn(context.Background(), "user-1")

	assert.Equal(t, cloudsync.StatusError, coord.Status())
	assert.Equal(t, "Sync error", coord.StatusLabel())

	_, ok := coord.LastSyncedAt()
	assert.False(t, ok)
}

func TestReadErrorSetsErrorStatus(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	remote := &fakeRemote{readErr: errors.New("connection refused")}
	coord := cloudsync.New(deckStore, remote, nil)

	coord.HandleSignIn(context.Background(), "user-1")

	assert.Equal(t, cloudsync.StatusError, coord.Status())
	assert.Equal(t, 0, remote.upsertCount())
}

func TestSyncNowPushesImmediately(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	emitter := events.NewInMemoryEmitter(nil)
	deckStore := newStoreAt(t, 100, store.WithEmitter(emitter))

	// A long debounce that would not fire within the test on its own.
	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(time.Hour))
	emitter.RegisterHandler(coord)

	coord.HandleSignIn(context.Background(), "user-1")
	baseline := remote.upsertCount()

	deckStore.CreateDeck("Deck")
	coord.SyncNow(context.Background())

	require.Equal(t, baseline+1, remote.upsertCount())
	assert.Equal(t, deckStore.UpdatedAt(), remote.lastUpsert().UpdatedAt)
	assert.Equal(t, cloudsync.StatusIdle, coord.Status())
}

func TestStaleEventsBelowWatermarkAreIgnored(t *testing.T) {
	t.Parallel()

	deckStore := newStoreAt(t, 100)
	deckStore.CreateDeck("Deck")

	remote := &fakeRemote{}
	coord := cloudsync.New(deckStore, remote, nil, cloudsync.WithDebounce(10*time.Millisecond))

	coord.HandleSignIn(context.Background(), "user-1")
	baseline := remote.upsertCount()
	watermark := deckStore.UpdatedAt()

	// Replaying an event at or below the watermark must not schedule a push.
	coord.HandleStateChange(events.StateChangeEvent{Op: "add_card", UpdatedAt: watermark})
	coord.HandleStateChange(events.StateChangeEvent{Op: "add_card", UpdatedAt: watermark - 10})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, baseline, remote.upsertCount())
}
