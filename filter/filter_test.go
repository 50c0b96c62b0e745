package filter

import (
	"testing"

	"github.com/radmakr/nostr/event"
	"github.com/stretchr/testify/assert"
)

func TestMatchesEmptyFilterMatchesAnything(t *testing.T) {
	f := Filter{}
	ev := event.Event{Kind: 1, CreatedAt: 100}
	assert.True(t, f.Matches(ev))
}

func TestMatchesKind(t *testing.T) {
	f := Filter{Kinds: []uint16{1, 2}}
	assert.True(t, f.Matches(event.Event{Kind: 1}))
	assert.False(t, f.Matches(event.Event{Kind: 3}))
}

func TestMatchesSinceUntil(t *testing.T) {
	since, until := uint64(100), uint64(200)
	f := Filter{Since: &since, Until: &until}
	assert.True(t, f.Matches(event.Event{CreatedAt: 150}))
	assert.False(t, f.Matches(event.Event{CreatedAt: 50}))
	assert.False(t, f.Matches(event.Event{CreatedAt: 250}))
}

func TestMatchesGenericTags(t *testing.T) {
	f := Filter{GenericTags: map[byte][]string{'e': {"abc"}}}
	assert.True(t, f.Matches(event.Event{Tags: event.Tags{{"e", "abc"}}}))
	assert.False(t, f.Matches(event.Event{Tags: event.Tags{{"e", "xyz"}}}))
}

func TestHashFiltersStable(t *testing.T) {
	limit := uint64(1)
	a := []Filter{{Kinds: []uint16{1}, Limit: &limit}}
	b := []Filter{{Kinds: []uint16{1}, Limit: &limit}}
	assert.Equal(t, HashFilters(a), HashFilters(b))
}

func TestHashFiltersDiffersOnLimit(t *testing.T) {
	l1, l2 := uint64(1), uint64(2)
	a := []Filter{{Kinds: []uint16{1}, Limit: &l1}}
	b := []Filter{{Kinds: []uint16{1}, Limit: &l2}}
	assert.NotEqual(t, HashFilters(a), HashFilters(b))
}

func TestMatchesCoordinate(t *testing.T) {
	var pk event.PubKey
	pk[0] = 7
	coord := event.Coordinate{Kind: 30000, Author: pk, D: "slot"}
	f := Filter{Kinds: []uint16{30000}, Authors: []event.PubKey{pk}, GenericTags: map[byte][]string{'d': {"slot"}}}
	assert.True(t, MatchesCoordinate(f, coord))

	other := Filter{GenericTags: map[byte][]string{'d': {"other"}}}
	assert.False(t, MatchesCoordinate(other, coord))
}
