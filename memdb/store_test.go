package memdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/filter"
	"github.com/radmakr/nostr/nostrdb"
	"github.com/radmakr/nostr/relayurl"
)

func idOf(b byte) event.ID {
	var id event.ID
	id[0] = b
	return id
}

func pkOf(b byte) event.PubKey {
	var pk event.PubKey
	pk[0] = b
	return pk
}

func TestSaveThenQuery(t *testing.T) {
	ctx := context.Background()
	max := 100
	s := New(Options{StoreEvents: true, MaxEvents: &max}, nil)

	pk := pkOf(1)
	ev := event.Event{ID: idOf(1), PubKey: pk, Kind: 1, CreatedAt: 100}

	status, err := s.SaveEvent(ctx, ev)
	require.NoError(t, err)
	assert.True(t, status.Success)

	count, err := s.Count(ctx, []filter.Filter{{Authors: []event.PubKey{pk}}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, ok, err := s.EventByID(ctx, ev.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(ev))

	limit := uint64(1)
	res, err := s.Query(ctx, []filter.Filter{{Kinds: []uint16{1}, Limit: &limit}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
}

func TestSaveEventsFalseAlwaysRejectsButMarksSeen(t *testing.T) {
	ctx := context.Background()
	s := New(Options{StoreEvents: false}, nil)

	ev := event.Event{ID: idOf(1), Kind: 1, CreatedAt: 100}
	status, err := s.SaveEvent(ctx, ev)
	require.NoError(t, err)
	assert.False(t, status.Success)
	assert.Equal(t, nostrdb.RejectedOther, status.Rejected)

	checkStatus, err := s.CheckID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, nostrdb.StatusSaved, checkStatus)
}

func TestReplaceableKindSupersession(t *testing.T) {
	ctx := context.Background()
	max := 100
	s := New(Options{StoreEvents: true, MaxEvents: &max}, nil)

	pk := pkOf(1)
	older := event.Event{ID: idOf(1), PubKey: pk, Kind: 0, CreatedAt: 100}
	newer := event.Event{ID: idOf(2), PubKey: pk, Kind: 0, CreatedAt: 200}

	status, err := s.SaveEvent(ctx, older)
	require.NoError(t, err)
	assert.True(t, status.Success)

	status, err = s.SaveEvent(ctx, newer)
	require.NoError(t, err)
	assert.True(t, status.Success)

	_, ok, err := s.EventByID(ctx, older.ID)
	require.NoError(t, err)
	assert.False(t, ok, "older replaceable-kind event should be superseded")

	got, ok, err := s.EventByID(ctx, newer.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(newer))
}

func TestReplaceableKindRejectsOlderArrivingLate(t *testing.T) {
	ctx := context.Background()
	max := 100
	s := New(Options{StoreEvents: true, MaxEvents: &max}, nil)

	pk := pkOf(1)
	newer := event.Event{ID: idOf(2), PubKey: pk, Kind: 0, CreatedAt: 200}
	older := event.Event{ID: idOf(1), PubKey: pk, Kind: 0, CreatedAt: 100}

	_, err := s.SaveEvent(ctx, newer)
	require.NoError(t, err)

	status, err := s.SaveEvent(ctx, older)
	require.NoError(t, err)
	assert.False(t, status.Success)
	assert.Equal(t, nostrdb.RejectedReplaced, status.Rejected)
}

func TestDeleteByFilterMarksDeletedAndRejectsFutureCoordinateWrites(t *testing.T) {
	ctx := context.Background()
	max := 100
	s := New(Options{StoreEvents: true, MaxEvents: &max}, nil)

	pk := pkOf(1)
	ev := event.Event{ID: idOf(1), PubKey: pk, Kind: 30000, CreatedAt: 100, Tags: event.Tags{{"d", "slot"}}}
	_, err := s.SaveEvent(ctx, ev)
	require.NoError(t, err)

	err = s.Delete(ctx, filter.Filter{IDs: []event.ID{ev.ID}})
	require.NoError(t, err)

	_, ok, err := s.EventByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	checkStatus, err := s.CheckID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, nostrdb.StatusDeleted, checkStatus)

	deleted, err := s.HasCoordinateBeenDeleted(ctx, event.CoordinateOf(ev), 50)
	require.NoError(t, err)
	assert.True(t, deleted)

	// A write at the same coordinate with an older or equal timestamp is rejected.
	older := event.Event{ID: idOf(2), PubKey: pk, Kind: 30000, CreatedAt: 100, Tags: event.Tags{{"d", "slot"}}}
	status, err := s.SaveEvent(ctx, older)
	require.NoError(t, err)
	assert.False(t, status.Success)
}

func TestEventIDSeenAndSeenOnRelays(t *testing.T) {
	ctx := context.Background()
	s := New(Options{StoreEvents: true}, nil)

	id := idOf(1)
	relay, err := relayurl.Parse("wss://relay.example")
	require.NoError(t, err)

	require.NoError(t, s.EventIDSeen(ctx, id, relay))

	urls, ok, err := s.EventSeenOnRelays(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, urls, 1)
}

func TestBeginTxnQueryBorrowed(t *testing.T) {
	ctx := context.Background()
	s := New(Options{StoreEvents: true}, nil)

	ev := event.Event{ID: idOf(1), Kind: 1, CreatedAt: 100}
	_, err := s.SaveEvent(ctx, ev)
	require.NoError(t, err)

	txn, err := s.BeginTxn(ctx)
	require.NoError(t, err)
	defer txn.Close()

	stream, err := txn.Query(ctx, []filter.Filter{{Kinds: []uint16{1}}})
	require.NoError(t, err)
	assert.Equal(t, 1, stream.Len())

	first, ok := stream.First()
	require.True(t, ok)
	assert.True(t, first.IsBorrowed())
	assert.Equal(t, ev.ID, first.ID())
}

func TestQueryCacheHitAndInvalidation(t *testing.T) {
	ctx := context.Background()
	max := 100
	s := New(Options{StoreEvents: true, MaxEvents: &max, QueryCacheSize: 8}, nil)
	require.NotNil(t, s.cache)

	pk := pkOf(1)
	ev := event.Event{ID: idOf(1), PubKey: pk, Kind: 1, CreatedAt: 100}
	_, err := s.SaveEvent(ctx, ev)
	require.NoError(t, err)

	f := []filter.Filter{{Kinds: []uint16{1}}}
	first, err := s.Query(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, s.cache.Len())

	// Mutating the caller's own copy must not corrupt the cached entry.
	first.Insert(event.Event{ID: idOf(9), PubKey: pk, Kind: 1, CreatedAt: 1})

	second, err := s.Query(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Len(), "cache hit must not reflect the caller's mutation of the prior result")

	// A write invalidates every cached entry.
	other := event.Event{ID: idOf(2), PubKey: pk, Kind: 1, CreatedAt: 200}
	_, err = s.SaveEvent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 0, s.cache.Len())

	third, err := s.Query(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Len())
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	s := New(Options{StoreEvents: true}, nil)
	_, err := s.SaveEvent(ctx, event.Event{ID: idOf(1), Kind: 1})
	require.NoError(t, err)

	require.NoError(t, s.Wipe(ctx))

	_, ok, err := s.EventByID(ctx, idOf(1))
	require.NoError(t, err)
	assert.False(t, ok)
}
