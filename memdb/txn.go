package memdb

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/filter"
	"github.com/radmakr/nostr/nostrdb"
)

// Txn is a read-snapshot scope: it holds the store's read lock for its
// entire lifetime, so queries inside it observe a consistent view
// unaffected by concurrent writes, and may yield Borrowed QueryEvent
// views safely — those views must not outlive Close.
type Txn struct {
	store  *Store
	once   sync.Once
	closed atomic.Bool
}

// BeginTxn implements nostrdb.NostrEventsDatabase.
func (s *Store) BeginTxn(ctx context.Context) (nostrdb.Transaction, error) {
	s.mu.RLock()
	return &Txn{store: s}, nil
}

// borrowedEvent implements event.BorrowedView over a pointer into the
// store's index, valid only while the originating Txn is open.
type borrowedEvent struct {
	ev *event.Event
}

func (b borrowedEvent) ID() event.ID         { return b.ev.ID }
func (b borrowedEvent) PubKey() event.PubKey { return b.ev.PubKey }
func (b borrowedEvent) CreatedAt() uint64    { return b.ev.CreatedAt }
func (b borrowedEvent) Content() string      { return b.ev.Content }
func (b borrowedEvent) ToOwned() event.Event { return *b.ev }

// Query implements nostrdb.Transaction.
func (t *Txn) Query(ctx context.Context, filters []filter.Filter) (event.QueryEvents, error) {
	if t.closed.Load() {
		return event.QueryEvents{}, nostrdb.Backend(errors.New("memdb: query on closed transaction"))
	}

	matched := t.store.matchingEventsLocked(filters)
	views := make([]event.QueryEvent, 0, len(matched))
	for _, ev := range matched {
		views = append(views, event.Borrowed(borrowedEvent{ev: ev}))
	}
	return event.NewQueryEventList(views), nil
}

// Close releases the transaction's read lock. Calling Close more than
// once is safe; only the first call releases the lock.
func (t *Txn) Close() error {
	t.once.Do(func() {
		t.closed.Store(true)
		t.store.mu.RUnlock()
	})
	return nil
}
