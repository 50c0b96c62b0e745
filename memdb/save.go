package memdb

import (
	"context"

	"go.uber.org/zap"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/nostrdb"
)

// SaveEvent implements nostrdb.NostrEventsDatabase.
//
// When the store is configured with StoreEvents=false it never indexes
// events at all: it only marks the id as seen and always reports
// Rejected(Other), even though the seen-tracking itself succeeded. This
// is a known wart inherited from the reference backend (see spec's open
// questions), kept as-is rather than renamed to a clearer status.
func (s *Store) SaveEvent(ctx context.Context, ev event.Event) (nostrdb.SaveEventStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opts.StoreEvents {
		s.seen.Seen(ev.ID, nil)
		return nostrdb.Reject(nostrdb.RejectedOther), nil
	}

	if _, ok := s.idDeleted[ev.ID]; ok {
		s.log.Debug("rejected deleted id", zap.Stringer("id", ev.ID))
		return nostrdb.Reject(nostrdb.RejectedDeleted), nil
	}

	isReplaceable := event.IsReplaceableKind(ev.Kind)
	isAddressable := event.IsAddressableKind(ev.Kind)
	var coord event.Coordinate
	if isReplaceable || isAddressable {
		coord = event.CoordinateOf(ev)
		if deletedAt, ok := s.coordDel[coord]; ok && deletedAt >= ev.CreatedAt {
			s.log.Debug("rejected event at deleted coordinate", zap.Stringer("id", ev.ID))
			return nostrdb.Reject(nostrdb.RejectedDeleted), nil
		}
	}

	if _, ok := s.byID[ev.ID]; ok {
		return nostrdb.Reject(nostrdb.RejectedDuplicate), nil
	}

	if isReplaceable || isAddressable {
		if holderID, ok := s.coordIdx[coord]; ok {
			if holder := s.byID[holderID]; holder != nil && event.IsReplacementCandidate(*holder, ev) {
				if holder.CreatedAt > ev.CreatedAt ||
					(holder.CreatedAt == ev.CreatedAt && holderID.Less(ev.ID)) {
					return nostrdb.Reject(nostrdb.RejectedReplaced), nil
				}
				s.removeFromIndexesLocked(holderID, *holder)
			}
		}
	}

	s.indexEventLocked(ev)
	if isReplaceable || isAddressable {
		s.coordIdx[coord] = ev.ID
	}
	s.invalidateCacheLocked()

	return nostrdb.Accepted(), nil
}

func (s *Store) indexEventLocked(ev event.Event) {
	stored := ev
	s.byID[ev.ID] = &stored

	if s.byAuthor[ev.PubKey] == nil {
		s.byAuthor[ev.PubKey] = make(map[event.ID]struct{})
	}
	s.byAuthor[ev.PubKey][ev.ID] = struct{}{}

	if s.byKind[ev.Kind] == nil {
		s.byKind[ev.Kind] = make(map[event.ID]struct{})
	}
	s.byKind[ev.Kind][ev.ID] = struct{}{}

	if res := s.ordered.Insert(ev); res.Evicted != nil {
		s.removeFromIndexesLocked(res.Evicted.ID, *res.Evicted)
		s.log.Debug("evicted event under capacity pressure", zap.Stringer("id", res.Evicted.ID))
	}
}

func (s *Store) removeFromIndexesLocked(id event.ID, ev event.Event) {
	delete(s.byID, id)
	if set := s.byAuthor[ev.PubKey]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(s.byAuthor, ev.PubKey)
		}
	}
	if set := s.byKind[ev.Kind]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(s.byKind, ev.Kind)
		}
	}
	s.ordered.Remove(ev)
}
