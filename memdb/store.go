// Package memdb is the in-memory reference backend implementing the
// nostrdb façade: an id map plus author/kind secondary indexes, a
// replaceable-coordinate deletion register, a capped ordered set
// respecting the core's total order, and delegated seen-tracking.
package memdb

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/events"
	"github.com/radmakr/nostr/filter"
	"github.com/radmakr/nostr/nostrdb"
	"github.com/radmakr/nostr/ocs"
	"github.com/radmakr/nostr/querycache"
	"github.com/radmakr/nostr/relayurl"
	"github.com/radmakr/nostr/seen"
)

// Store is the in-memory reference backend.
type Store struct {
	mu   sync.RWMutex
	opts Options
	log  *zap.Logger

	byID      map[event.ID]*event.Event
	byAuthor  map[event.PubKey]map[event.ID]struct{}
	byKind    map[uint16]map[event.ID]struct{}
	coordIdx  map[event.Coordinate]event.ID // current holder of a replaceable/addressable slot
	coordDel  map[event.Coordinate]uint64   // latest deletion timestamp per coordinate
	idDeleted map[event.ID]struct{}

	ordered *ocs.Set[event.Event]
	seen    *seen.Tracker
	cache   *querycache.Cache // nil when Options.QueryCacheSize == 0
}

// New creates a Store with the given options. A nil logger disables
// boundary logging (construction, eviction-under-pressure, rejected saves).
func New(opts Options, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}

	capacity := ocs.Unbounded()
	if opts.MaxEvents != nil {
		capacity = ocs.Bounded(*opts.MaxEvents, ocs.PolicyLast)
	}

	s := &Store{
		opts:      opts,
		log:       log,
		byID:      make(map[event.ID]*event.Event),
		byAuthor:  make(map[event.PubKey]map[event.ID]struct{}),
		byKind:    make(map[uint16]map[event.ID]struct{}),
		coordIdx:  make(map[event.Coordinate]event.ID),
		coordDel:  make(map[event.Coordinate]uint64),
		idDeleted: make(map[event.ID]struct{}),
		ordered:   ocs.New(orderByEventLess, capacity),
		seen:      seen.New(opts.MaxEvents),
	}

	if opts.QueryCacheSize > 0 {
		cache, err := querycache.New(opts.QueryCacheSize)
		if err != nil {
			log.Warn("query cache disabled: invalid size", zap.Int("size", opts.QueryCacheSize), zap.Error(err))
		} else {
			s.cache = cache
		}
	}

	log.Debug("memdb store constructed",
		zap.Bool("store_events", opts.StoreEvents),
		zap.Intp("max_events", opts.MaxEvents),
		zap.Int("query_cache_size", opts.QueryCacheSize),
	)
	return s
}

// orderByEventLess lifts event.Less (defined on QueryEvent) to plain
// Event values, so the reference backend's ordered set shares the exact
// total order every other component relies on.
//
// Lookup tag: EVENT_ORD_IMPL
func orderByEventLess(a, b event.Event) bool {
	return event.Less(event.Owned(a), event.Owned(b))
}

// Backend implements nostrdb.NostrDatabase.
func (s *Store) Backend() nostrdb.BackendTag { return nostrdb.BackendMemory }

// Wipe implements nostrdb.NostrDatabase.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[event.ID]*event.Event)
	s.byAuthor = make(map[event.PubKey]map[event.ID]struct{})
	s.byKind = make(map[uint16]map[event.ID]struct{})
	s.coordIdx = make(map[event.Coordinate]event.ID)
	s.coordDel = make(map[event.Coordinate]uint64)
	s.idDeleted = make(map[event.ID]struct{})
	s.ordered = ocs.New(orderByEventLess, s.ordered.Capacity())
	s.seen.Clear()
	s.invalidateCacheLocked()

	s.log.Debug("memdb store wiped")
	return nil
}

// invalidateCacheLocked discards every cached query result. Caller must
// hold the write lock; called after any mutation (save, delete, wipe)
// since a cached result may no longer reflect the store's state.
func (s *Store) invalidateCacheLocked() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

var _ nostrdb.NostrDatabase = (*Store)(nil)
var _ nostrdb.NostrEventsDatabase = (*Store)(nil)

// candidateIDs returns the set of ids that satisfy f's structural
// constraints (ids/authors/kinds), without yet applying tag/time-window
// matching. A filter with none of those constraints yields every id
// currently indexed. Caller must hold at least a read lock.
func (s *Store) candidateIDs(f filter.Filter) map[event.ID]struct{} {
	var result map[event.ID]struct{}
	narrowed := false

	narrow := func(ids map[event.ID]struct{}) {
		if !narrowed {
			result = ids
			narrowed = true
			return
		}
		for id := range result {
			if _, ok := ids[id]; !ok {
				delete(result, id)
			}
		}
	}

	if len(f.IDs) > 0 {
		idSet := make(map[event.ID]struct{}, len(f.IDs))
		for _, id := range f.IDs {
			if _, ok := s.byID[id]; ok {
				idSet[id] = struct{}{}
			}
		}
		narrow(idSet)
	}
	if len(f.Authors) > 0 {
		idSet := make(map[event.ID]struct{})
		for _, pk := range f.Authors {
			for id := range s.byAuthor[pk] {
				idSet[id] = struct{}{}
			}
		}
		narrow(idSet)
	}
	if len(f.Kinds) > 0 {
		idSet := make(map[event.ID]struct{})
		for _, k := range f.Kinds {
			for id := range s.byKind[k] {
				idSet[id] = struct{}{}
			}
		}
		narrow(idSet)
	}

	if !narrowed {
		result = make(map[event.ID]struct{}, len(s.byID))
		for id := range s.byID {
			result[id] = struct{}{}
		}
	}
	return result
}

func (s *Store) matchingEventsLocked(filters []filter.Filter) map[event.ID]*event.Event {
	matched := make(map[event.ID]*event.Event)
	for _, f := range filters {
		for id := range s.candidateIDs(f) {
			ev := s.byID[id]
			if ev == nil {
				continue
			}
			if _, ok := matched[id]; ok {
				continue
			}
			if f.Matches(*ev) {
				matched[id] = ev
			}
		}
	}
	return matched
}

// Query implements nostrdb.NostrEventsDatabase. When a query cache is
// configured, a hit returns an independent clone of the cached Events so
// a caller mutating its own copy cannot corrupt the cached entry.
func (s *Store) Query(ctx context.Context, filters []filter.Filter) (*events.Events, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache == nil {
		return s.queryLocked(filters), nil
	}

	key := filter.HashFilters(filters)
	result, err := s.cache.GetOrLoad(key, func() (*events.Events, error) {
		return s.queryLocked(filters), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Clone(), nil
}

func (s *Store) queryLocked(filters []filter.Filter) *events.Events {
	result := events.New(filters)
	for _, ev := range s.matchingEventsLocked(filters) {
		result.Insert(*ev)
	}
	return result
}

// Count implements nostrdb.NostrEventsDatabase.
func (s *Store) Count(ctx context.Context, filters []filter.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchingEventsLocked(filters)), nil
}

// NegentropyItems implements nostrdb.NostrEventsDatabase.
func (s *Store) NegentropyItems(ctx context.Context, f filter.Filter) ([]nostrdb.NegentropyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchingEventsLocked([]filter.Filter{f})
	items := make([]nostrdb.NegentropyItem, 0, len(matched))
	for id, ev := range matched {
		items = append(items, nostrdb.NegentropyItem{ID: id, CreatedAt: ev.CreatedAt})
	}
	return items, nil
}

// EventByID implements nostrdb.NostrEventsDatabase.
func (s *Store) EventByID(ctx context.Context, id event.ID) (event.Event, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[id]
	if !ok {
		return event.Event{}, false, nil
	}
	return *ev, true, nil
}

// CheckID implements nostrdb.NostrEventsDatabase.
func (s *Store) CheckID(ctx context.Context, id event.ID) (nostrdb.DatabaseEventStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.opts.StoreEvents {
		if s.seen.Contains(id) {
			return nostrdb.StatusSaved, nil
		}
		return nostrdb.StatusNotExistent, nil
	}

	if _, ok := s.idDeleted[id]; ok {
		return nostrdb.StatusDeleted, nil
	}
	if _, ok := s.byID[id]; ok {
		return nostrdb.StatusSaved, nil
	}
	return nostrdb.StatusNotExistent, nil
}

// HasCoordinateBeenDeleted implements nostrdb.NostrEventsDatabase.
func (s *Store) HasCoordinateBeenDeleted(ctx context.Context, coord event.Coordinate, ts uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deletedAt, ok := s.coordDel[coord]
	return ok && deletedAt >= ts, nil
}

// EventIDSeen implements nostrdb.NostrEventsDatabase.
func (s *Store) EventIDSeen(ctx context.Context, id event.ID, peer relayurl.RelayUrl) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen.Seen(id, &peer)
	return nil
}

// EventSeenOnRelays implements nostrdb.NostrEventsDatabase.
func (s *Store) EventSeenOnRelays(ctx context.Context, id event.ID) ([]relayurl.RelayUrl, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls, ok := s.seen.Get(id)
	return urls, ok, nil
}

// Delete implements nostrdb.NostrEventsDatabase.
func (s *Store) Delete(ctx context.Context, f filter.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.matchingEventsLocked([]filter.Filter{f})
	for id, ev := range matched {
		s.removeFromIndexesLocked(id, *ev)
		s.idDeleted[id] = struct{}{}

		if event.IsReplaceableKind(ev.Kind) || event.IsAddressableKind(ev.Kind) {
			coord := event.CoordinateOf(*ev)
			if cur, ok := s.coordDel[coord]; !ok || ev.CreatedAt > cur {
				s.coordDel[coord] = ev.CreatedAt
			}
		}
	}
	if len(matched) > 0 {
		s.invalidateCacheLocked()
	}
	return nil
}
