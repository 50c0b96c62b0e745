package event

// BorrowedView is implemented by a backend read transaction to expose an
// event without copying it out of the transaction's snapshot. Accessors
// must not allocate. ToOwned is the only operation allowed to copy, and it
// is safe to call only while the originating transaction is still open.
type BorrowedView interface {
	ID() ID
	PubKey() PubKey
	CreatedAt() uint64
	Content() string
	ToOwned() Event
}

// QueryEvent is a tagged owned-or-borrowed view over an Event, used
// uniformly in query results so aggregators can defer copying until they
// actually need to retain data past a transaction's lifetime.
type QueryEvent struct {
	owned    *Event
	borrowed BorrowedView
}

// Owned wraps an already-owned Event.
func Owned(e Event) QueryEvent {
	return QueryEvent{owned: &e}
}

// Borrowed wraps a backend-provided view. The caller must not let the
// returned QueryEvent outlive the transaction that produced v.
func Borrowed(v BorrowedView) QueryEvent {
	return QueryEvent{borrowed: v}
}

// IsBorrowed reports whether q currently wraps a borrowed view.
func (q QueryEvent) IsBorrowed() bool { return q.borrowed != nil }

// ID returns the event identifier. Never allocates.
func (q QueryEvent) ID() ID {
	if q.owned != nil {
		return q.owned.ID
	}
	return q.borrowed.ID()
}

// PubKey returns the author public key. Never allocates.
func (q QueryEvent) PubKey() PubKey {
	if q.owned != nil {
		return q.owned.PubKey
	}
	return q.borrowed.PubKey()
}

// CreatedAt returns the creation timestamp. Never allocates.
func (q QueryEvent) CreatedAt() uint64 {
	if q.owned != nil {
		return q.owned.CreatedAt
	}
	return q.borrowed.CreatedAt()
}

// Content returns the event content. Never allocates.
func (q QueryEvent) Content() string {
	if q.owned != nil {
		return q.owned.Content
	}
	return q.borrowed.Content()
}

// IntoOwned lifts a borrowed view to an owned QueryEvent by copying.
// Idempotent: calling it on an already-owned QueryEvent is a no-op.
func (q QueryEvent) IntoOwned() QueryEvent {
	if q.owned != nil {
		return q
	}
	e := q.borrowed.ToOwned()
	return QueryEvent{owned: &e}
}

// IntoEvent unwraps q to a plain owned Event, copying if q was borrowed.
func (q QueryEvent) IntoEvent() Event {
	if q.owned != nil {
		return *q.owned
	}
	return q.borrowed.ToOwned()
}

// Equal implements the total order's equality: identical IDs.
func (q QueryEvent) Equal(other QueryEvent) bool {
	return q.ID() == other.ID()
}

// Less implements the core's load-bearing total order:
//
//	primary:   created_at, descending (newer sorts first)
//	secondary: id, ascending byte-lexicographic
//
// Changing this ordering cascades through every consumer that relies on
// "first"/"last"/"iterate" meaning newest-first — see ocs.Set and Events.
func Less(a, b QueryEvent) bool {
	ca, cb := a.CreatedAt(), b.CreatedAt()
	if ca != cb {
		return ca > cb
	}
	aid, bid := a.ID(), b.ID()
	return aid.Less(bid)
}

// QueryEvents is the stream shape a backend transaction hands back: either
// an already-ordered list or a set collected under the core's total order.
type QueryEvents struct {
	list []QueryEvent
	set  []QueryEvent // kept sorted by Less; used when the backend built a set
	isSet bool
}

// NewQueryEventList wraps a backend-produced, order-unspecified list.
func NewQueryEventList(events []QueryEvent) QueryEvents {
	return QueryEvents{list: events}
}

// NewQueryEventSet wraps events already deduplicated and sorted by Less.
func NewQueryEventSet(events []QueryEvent) QueryEvents {
	return QueryEvents{set: events, isSet: true}
}

// Len returns the number of events carried by the stream.
func (q QueryEvents) Len() int {
	if q.isSet {
		return len(q.set)
	}
	return len(q.list)
}

// First returns the first element without consuming the stream view.
func (q QueryEvents) First() (QueryEvent, bool) {
	s := q.list
	if q.isSet {
		s = q.set
	}
	if len(s) == 0 {
		return QueryEvent{}, false
	}
	return s[0], true
}

// IntoSlice drains the stream into a plain slice in its current order.
func (q QueryEvents) IntoSlice() []QueryEvent {
	if q.isSet {
		return q.set
	}
	return q.list
}

// IntoOwned lifts every element of the stream to an owned QueryEvent,
// returning a new slice in the stream's current order. Folding the result
// into an Events collection is events.FromQueryEvents's job: this package
// cannot depend on events, which itself depends on event.
func (q QueryEvents) IntoOwned() []QueryEvent {
	src := q.IntoSlice()
	out := make([]QueryEvent, len(src))
	for i, qe := range src {
		out[i] = qe.IntoOwned()
	}
	return out
}
