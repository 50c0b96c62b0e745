// Package events implements the Events collection: a capped, ordered,
// filter-tagged set of event.Event, plus folding a backend QueryEvents
// stream into one.
package events

import (
	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/filter"
	"github.com/radmakr/nostr/ocs"
)

// evictionPolicy is fixed: for events, whose order is descending by
// creation time, PolicyLast discards the oldest event when a limit-N
// collection is already full, which is exactly what a limit-N query wants.
//
// Lookup tag: EVENT_ORD_IMPL — if this or event.Less ever changes, check
// every caller that assumes "first" means "newest".
const evictionPolicy = ocs.PolicyLast

// Events is a capped, ordered, filter-tagged collection of Event: the
// user-visible result of a query. Two Events are equal iff their element
// sets are equal — the filter fingerprint does not participate in equality.
type Events struct {
	set          *ocs.Set[event.QueryEvent]
	hash         uint64
	prevNotMatch bool
}

// New builds an empty Events collection sized for filters: when filters
// has exactly one element carrying a Limit, the collection is bounded to
// that limit under PolicyLast; otherwise it is unbounded. hash is a
// stable, order-sensitive fingerprint of filters used only to detect
// "probably the same query" across merges (see Merge).
func New(filters []filter.Filter) *Events {
	var limit *uint64
	if len(filters) == 1 && filters[0].Limit != nil {
		limit = filters[0].Limit
	}

	cap := ocs.Unbounded()
	if limit != nil {
		cap = ocs.Bounded(int(*limit), evictionPolicy)
	}

	return &Events{
		set:  ocs.New(event.Less, cap),
		hash: filter.HashFilters(filters),
	}
}

// FromQueryEvents folds a backend-produced stream into an Events
// collection. The result is pre-tainted (hash=0, prevNotMatch=true)
// because a stream is not associated with any single originating filter
// list — merging it with a properly constructed Events stays unbounded.
func FromQueryEvents(stream event.QueryEvents) *Events {
	e := &Events{
		set:          ocs.New[event.QueryEvent](event.Less, ocs.Unbounded()),
		prevNotMatch: true,
	}
	for _, qe := range stream.IntoOwned() {
		e.set.Insert(qe)
	}
	return e
}

// Len returns the number of events held.
func (e *Events) Len() int { return e.set.Len() }

// IsEmpty reports whether the collection holds no events.
func (e *Events) IsEmpty() bool { return e.set.IsEmpty() }

// Contains reports whether ev (compared by id) is present.
func (e *Events) Contains(ev event.Event) bool { return e.set.Contains(event.Owned(ev)) }

// Insert adds ev, returning true if it was newly inserted.
func (e *Events) Insert(ev event.Event) bool {
	return e.set.Insert(event.Owned(ev)).Inserted
}

// Extend inserts every event in evs.
func (e *Events) Extend(evs []event.Event) {
	for _, ev := range evs {
		e.Insert(ev)
	}
}

// ExtendQueryEvents inserts every element of a backend-produced stream,
// lifting borrowed views to owned events as it goes.
func (e *Events) ExtendQueryEvents(stream event.QueryEvents) {
	for _, qe := range stream.IntoOwned() {
		e.set.Insert(qe)
	}
}

// Merge folds other into e and returns e.
//
// If the two collections were not built from the same filter list (hash
// mismatch) or either is already tainted from a prior mismatched merge,
// the result becomes Unbounded and permanently tainted (prevNotMatch),
// even if by coincidence a later partner shares the same hash: a limit-N
// result is only meaningful under the one filter list it came from.
func (e *Events) Merge(other *Events) *Events {
	if e.hash != other.hash || e.prevNotMatch || other.prevNotMatch {
		e.set.ChangeCapacity(ocs.Unbounded())
		e.hash = 0
		e.prevNotMatch = true
	}
	other.set.Iterate(func(qe event.QueryEvent) bool {
		e.set.Insert(qe)
		return true
	})
	return e
}

// First returns the newest event.
func (e *Events) First() (event.Event, bool) {
	qe, ok := e.set.First()
	if !ok {
		return event.Event{}, false
	}
	return qe.IntoEvent(), true
}

// Last returns the oldest event.
func (e *Events) Last() (event.Event, bool) {
	qe, ok := e.set.Last()
	if !ok {
		return event.Event{}, false
	}
	return qe.IntoEvent(), true
}

// Iterate visits events in descending creation-time order (newest first),
// calling fn until it returns false or the collection is exhausted.
func (e *Events) Iterate(fn func(event.Event) bool) {
	e.set.Iterate(func(qe event.QueryEvent) bool {
		return fn(qe.IntoEvent())
	})
}

// ToSlice returns all events as a slice, newest first.
func (e *Events) ToSlice() []event.Event {
	qes := e.set.ToSlice()
	out := make([]event.Event, len(qes))
	for i, qe := range qes {
		out[i] = qe.IntoEvent()
	}
	return out
}

// Equal reports whether e and other hold equal (by id) element sets. The
// originating filter hash does not participate in equality.
func (e *Events) Equal(other *Events) bool {
	return e.set.Equal(other.set)
}

// Clone returns a deep copy sharing no mutable state with e, so a caller
// that mutates the clone (e.g. after reading it back out of querycache)
// cannot corrupt a collection held elsewhere.
func (e *Events) Clone() *Events {
	return &Events{
		set:          e.set.Clone(),
		hash:         e.hash,
		prevNotMatch: e.prevNotMatch,
	}
}
