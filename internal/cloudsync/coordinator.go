package cloudsync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/kuizlet/internal/events"
	"github.com/phrazzld/kuizlet/internal/store"
)

// Status is the coordinator's externally visible sync state.
type Status string

// Sync statuses. Offline means no remote backend is configured and the
// coordinator will never perform network operations.
const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusError   Status = "error"
	StatusOffline Status = "offline"
)

// DefaultDebounce is the quiet period after the last local mutation before
// a push is sent. A new mutation within the window restarts the timer, so
// only the latest state after a burst of edits goes out.
const DefaultDebounce = 1200 * time.Millisecond

// Coordinator bridges the local deck store to a RemoteStore. It implements
// events.Handler and must be registered with the store's event emitter.
//
// Push discipline: at most one push is in flight at any time. A push
// requested while another is in flight sets a dirty flag instead (a
// single-slot pending queue, so only the latest state survives), and every
// push re-reads the current snapshot and is gated on the watermark so a
// stale payload can never regress the remote copy.
type Coordinator struct {
	store    *store.DeckStore
	remote   RemoteStore
	logger   *slog.Logger
	debounce time.Duration

	mu           sync.Mutex
	userID       string // empty while signed out
	status       Status
	watermark    int64 // logical clock of the last successful push or pull
	lastSyncedAt int64 // logical clock of the last completed sync, 0 if none
	timer        *time.Timer
	pushing      bool
	dirty        bool
	hydrating    bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		c.debounce = d
	}
}

// New creates a Coordinator. A nil remote disables sync permanently: the
// coordinator reports StatusOffline and ignores all events, while local
// mutations keep succeeding.
func New(deckStore *store.DeckStore, remote RemoteStore, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		store:    deckStore,
		remote:   remote,
		logger:   logger.With(slog.String("component", "sync_coordinator")),
		debounce: DefaultDebounce,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if remote == nil {
		c.status = StatusOffline
		c.logger.Info("remote store not configured, sync disabled")
	}
	return c
}

// HandleStateChange implements events.Handler. Local mutations newer than
// the watermark schedule a debounced push; anything else is ignored.
func (c *Coordinator) HandleStateChange(event events.StateChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remote == nil || c.userID == "" || c.hydrating {
		return
	}
	if event.UpdatedAt <= c.watermark {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.push(context.Background())
	})
}

// HandleSignIn records the signed-in user and performs the initial pull:
// if the remote document is newer than local state, local state is
// overwritten wholesale (with the coordinator's own push trigger
// suppressed); otherwise local state is authoritative and is pushed
// immediately.
func (c *Coordinator) HandleSignIn(ctx context.Context, userID string) {
	c.mu.Lock()
	if c.remote == nil {
		c.mu.Unlock()
		return
	}
	c.userID = userID
	c.status = StatusSyncing
	c.mu.Unlock()

	c.logger.Info("signed in, pulling remote state", "user_id", userID)
	c.pull(ctx, userID)
}

// HandleSignOut stops scheduling pushes. No final flush is attempted;
// callers that want one should invoke SyncNow before signing out.
func (c *Coordinator) HandleSignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = ""
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.logger.Info("signed out, sync paused")
}

// SyncNow pushes the current snapshot immediately, bypassing the debounce
// window. No-op while signed out or offline.
func (c *Coordinator) SyncNow(ctx context.Context) {
	c.mu.Lock()
	if c.remote == nil || c.userID == "" {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.push(ctx)
}

// Status returns the current sync status.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastSyncedAt returns the logical timestamp of the last completed sync.
// ok is false when nothing has been synced yet.
func (c *Coordinator) LastSyncedAt() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSyncedAt, c.lastSyncedAt != 0
}

// StatusLabel renders the user-facing sync label.
func (c *Coordinator) StatusLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StatusOffline:
		return "Sync disabled"
	case StatusSyncing:
		return "Syncing"
	case StatusError:
		return "Sync error"
	}
	if c.lastSyncedAt != 0 {
		return "Synced " + time.UnixMilli(c.lastSyncedAt).Format("15:04:05")
	}
	return "Ready to sync"
}

// pull fetches the remote document and resolves the conflict by logical
// timestamp: strictly newer remote wins and overwrites local state;
// otherwise local wins and is pushed.
func (c *Coordinator) pull(ctx context.Context, userID string) {
	doc, err := c.remote.ReadOne(ctx, userID)
	if err != nil && !errors.Is(err, ErrDocumentNotFound) {
		c.logger.Error("remote read failed", "user_id", userID, "error", err)
		c.setStatus(StatusError)
		return
	}

	if doc != nil && doc.State != nil && doc.State.UpdatedAt > c.store.UpdatedAt() {
		// Remote is newer: hydrate local state. The hydrating flag keeps
		// the resulting change event from scheduling a push of the state
		// we just pulled.
		c.mu.Lock()
		c.hydrating = true
		c.mu.Unlock()

		c.store.SetFromCloud(doc.State)

		c.mu.Lock()
		c.hydrating = false
		c.watermark = doc.State.UpdatedAt
		c.lastSyncedAt = doc.State.UpdatedAt
		c.status = StatusIdle
		c.mu.Unlock()

		c.logger.Info("hydrated local state from remote",
			"user_id", userID,
			"updated_at", doc.State.UpdatedAt)
		return
	}

	// Local is authoritative (or no remote document exists yet).
	c.push(ctx)
}

// push sends the current full snapshot to the remote store. Only one push
// runs at a time; requests arriving mid-flight collapse into a single
// follow-up push of whatever state is current when it starts.
func (c *Coordinator) push(ctx context.Context) {
	c.mu.Lock()
	if c.remote == nil || c.userID == "" {
		c.mu.Unlock()
		return
	}
	if c.pushing {
		c.dirty = true
		c.mu.Unlock()
		return
	}
	c.pushing = true
	c.status = StatusSyncing
	userID := c.userID
	watermark := c.watermark
	c.mu.Unlock()

	snapshot := c.store.Snapshot()
	if snapshot.UpdatedAt < watermark {
		// Stale payload; a newer sync already completed. Never regress
		// the remote copy.
		c.finishPush(ctx, false, 0, nil)
		return
	}

	err := c.remote.Upsert(ctx, userID, snapshot)
	if err != nil {
		c.logger.Error("remote push failed", "user_id", userID, "error", err)
		c.finishPush(ctx, false, 0, err)
		return
	}

	c.logger.Debug("pushed snapshot", "user_id", userID, "updated_at", snapshot.UpdatedAt)
	c.finishPush(ctx, true, snapshot.UpdatedAt, nil)
}

// finishPush clears the in-flight flag, updates watermark/status, and runs
// the follow-up push when changes arrived mid-flight.
func (c *Coordinator) finishPush(ctx context.Context, pushed bool, updatedAt int64, err error) {
	c.mu.Lock()
	c.pushing = false
	rerun := c.dirty
	c.dirty = false
	switch {
	case err != nil:
		// No automatic retry: the next mutation or manual sync attempt
		// will naturally try again.
		c.status = StatusError
	default:
		if pushed {
			if updatedAt > c.watermark {
				c.watermark = updatedAt
			}
			c.lastSyncedAt = updatedAt
		}
		c.status = StatusIdle
	}
	c.mu.Unlock()

	if rerun && err == nil {
		c.push(ctx)
	}
}

func (c *Coordinator) setStatus(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}
