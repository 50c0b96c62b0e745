// Package seen implements SeenTracker: a bounded map from event identifier
// to the set of relay URLs that delivered it, with insertion-order (FIFO,
// not LRU) eviction. Grounded on the reference SeenTracker in
// nostr-database's memory backend.
package seen

import (
	"container/list"
	"sync"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/relayurl"
)

// Tracker is safe for concurrent use: many readers (Contains/Get), one
// writer (Seen/Clear) at a time, guarded by a reader/writer lock.
type Tracker struct {
	mu       sync.RWMutex
	ids      map[event.ID]map[relayurl.RelayUrl]struct{}
	elems    map[event.ID]*list.Element
	queue    *list.List // front = most recently inserted new id
	capacity *int
}

// New creates a Tracker. A nil capacity means unbounded.
func New(capacity *int) *Tracker {
	return &Tracker{
		ids:      make(map[event.ID]map[relayurl.RelayUrl]struct{}),
		elems:    make(map[event.ID]*list.Element),
		queue:    list.New(),
		capacity: capacity,
	}
}

// checkCapacity evicts the back of the queue if the tracker is at or over
// capacity, making room for one new insertion. Caller must hold mu.
func (t *Tracker) checkCapacity() {
	if t.capacity == nil {
		return
	}
	if t.queue.Len() >= *t.capacity {
		back := t.queue.Back()
		if back == nil {
			return
		}
		t.queue.Remove(back)
		id := back.Value.(event.ID)
		delete(t.ids, id)
		delete(t.elems, id)
	}
}

// Seen records that id was observed, optionally attributing it to peer.
// If id is new, it is pushed to the front of the insertion queue after
// any capacity-driven eviction from the back; an already-seen id is never
// moved, so eviction is FIFO, not true LRU — a repeatedly-seen id does not
// refresh its position.
func (t *Tracker) Seen(id event.ID, peer *relayurl.RelayUrl) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if set, ok := t.ids[id]; ok {
		if peer != nil {
			set[*peer] = struct{}{}
		}
		return
	}

	t.checkCapacity()

	set := make(map[relayurl.RelayUrl]struct{})
	if peer != nil {
		set[*peer] = struct{}{}
	}
	t.ids[id] = set
	t.elems[id] = t.queue.PushFront(id)
}

// Contains reports whether id has been seen.
func (t *Tracker) Contains(id event.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// Get returns the set of relay URLs that delivered id, or false if id is
// unseen. The returned slice is a snapshot; mutating it has no effect on
// the tracker.
func (t *Tracker) Get(id event.ID) ([]relayurl.RelayUrl, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set, ok := t.ids[id]
	if !ok {
		return nil, false
	}
	out := make([]relayurl.RelayUrl, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out, true
}

// Clear removes every tracked id.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = make(map[event.ID]map[relayurl.RelayUrl]struct{})
	t.elems = make(map[event.ID]*list.Element)
	t.queue.Init()
}

// Len returns the number of tracked ids.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
