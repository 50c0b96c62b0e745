// Package filter defines the domain query predicate over events and the
// order-sensitive fingerprint hash used to fingerprint a filter list.
package filter

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/radmakr/nostr/event"
)

// Filter is a declarative predicate over events: an attribute bag of
// optional id-set, author-set, kind-set, generic tag constraints, and a
// time window/limit. A nil/empty set means "unconstrained on this
// attribute", not "matches nothing".
type Filter struct {
	IDs         []event.ID
	Authors     []event.PubKey
	Kinds       []uint16
	GenericTags map[byte][]string // single-letter tag key -> accepted values
	Since       *uint64
	Until       *uint64
	Limit       *uint64
}

// WithLimit returns a copy of f with Limit set to n.
func (f Filter) WithLimit(n uint64) Filter {
	f.Limit = &n
	return f
}

// WithSince returns a copy of f with Since set to ts.
func (f Filter) WithSince(ts uint64) Filter {
	f.Since = &ts
	return f
}

// WithUntil returns a copy of f with Until set to ts.
func (f Filter) WithUntil(ts uint64) Filter {
	f.Until = &ts
	return f
}

// Matches reports whether ev satisfies every constraint f carries. An
// empty/nil attribute never excludes an event.
func (f Filter) Matches(ev event.Event) bool {
	if len(f.IDs) > 0 && !containsID(f.IDs, ev.ID) {
		return false
	}
	if len(f.Authors) > 0 && !containsPubKey(f.Authors, ev.PubKey) {
		return false
	}
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, ev.Kind) {
		return false
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	for key, values := range f.GenericTags {
		if !eventHasTagValue(ev, key, values) {
			return false
		}
	}
	return true
}

func containsID(ids []event.ID, id event.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsPubKey(pks []event.PubKey, pk event.PubKey) bool {
	for _, v := range pks {
		if v == pk {
			return true
		}
	}
	return false
}

func containsKind(kinds []uint16, kind uint16) bool {
	for _, v := range kinds {
		if v == kind {
			return true
		}
	}
	return false
}

func eventHasTagValue(ev event.Event, key byte, values []string) bool {
	name := string(key)
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == name {
			for _, v := range values {
				if tag[1] == v {
					return true
				}
			}
		}
	}
	return false
}

// HashFilters computes a stable, order-sensitive 64-bit fingerprint of a
// filter list, used only to detect "probably the same query" across
// Events merges (see events.Events.Merge). Collisions across genuinely
// different filter lists are tolerated: the effect is a harmless
// undercount where a bound is preserved when it shouldn't be.
func HashFilters(filters []Filter) uint64 {
	h := xxhash.New()
	for _, f := range filters {
		hashFilter(h, f)
	}
	return h.Sum64()
}

func hashFilter(h *xxhash.Digest, f Filter) {
	writeIDs(h, f.IDs)
	writePubKeys(h, f.Authors)
	writeKinds(h, f.Kinds)
	writeGenericTags(h, f.GenericTags)
	writeOptional(h, f.Since)
	writeOptional(h, f.Until)
	writeOptional(h, f.Limit)
}

func writeIDs(h *xxhash.Digest, ids []event.ID) {
	writeLen(h, len(ids))
	for _, id := range ids {
		h.Write(id[:])
	}
}

func writePubKeys(h *xxhash.Digest, pks []event.PubKey) {
	writeLen(h, len(pks))
	for _, pk := range pks {
		h.Write(pk[:])
	}
}

func writeKinds(h *xxhash.Digest, kinds []uint16) {
	writeLen(h, len(kinds))
	for _, k := range kinds {
		h.Write([]byte{byte(k >> 8), byte(k)})
	}
}

func writeGenericTags(h *xxhash.Digest, tags map[byte][]string) {
	keys := make([]byte, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	writeLen(h, len(keys))
	for _, k := range keys {
		h.Write([]byte{k})
		values := append([]string(nil), tags[k]...)
		sort.Strings(values)
		writeLen(h, len(values))
		for _, v := range values {
			h.Write([]byte(v))
		}
	}
}

func writeOptional(h *xxhash.Digest, v *uint64) {
	if v == nil {
		h.Write([]byte{0})
		return
	}
	h.Write([]byte{1})
	writeUint64(h, *v)
}

func writeLen(h *xxhash.Digest, n int) {
	writeUint64(h, uint64(n))
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	h.Write(b[:])
}
