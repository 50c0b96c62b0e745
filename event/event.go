// Package event defines the wire-level Event record and the core's
// ordering, equality, and coordinate rules built on top of it.
package event

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// ID is the 32-byte content-hash identifier of an Event. Two events with
// equal IDs are byte-equal — this is the core's equality axiom.
type ID [32]byte

// PubKey is a 32-byte author public key.
type PubKey [32]byte

// Sig is a 64-byte Schnorr signature. The core never verifies it.
type Sig [64]byte

func (id ID) String() string     { return hex.EncodeToString(id[:]) }
func (pk PubKey) String() string { return hex.EncodeToString(pk[:]) }

// Less reports whether id sorts strictly before other, byte-lexicographic
// ascending. Used only as the secondary (tie-break) key of the total order.
func (id ID) Less(other ID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// Tags is the ordered list of string-array tags carried by an Event.
type Tags [][]string

// D returns the value of the first "d" tag, or "" if none is present.
// Addressable (parameterized replaceable) events are keyed by this value.
func (t Tags) D() string {
	for _, tag := range t {
		if len(tag) >= 2 && tag[0] == "d" {
			return tag[1]
		}
	}
	return ""
}

// Event is an immutable signed record. The core treats it as opaque data:
// it never verifies Sig and never recomputes ID from Content.
type Event struct {
	ID        ID
	PubKey    PubKey
	CreatedAt uint64 // seconds since epoch
	Kind      uint16
	Tags      Tags
	Content   string
	Sig       Sig
}

// Equal implements the core's equality axiom: identity by ID alone.
func (e Event) Equal(other Event) bool {
	return e.ID == other.ID
}

func (e Event) String() string {
	return fmt.Sprintf("Event{id=%s kind=%d created_at=%d}", e.ID, e.Kind, e.CreatedAt)
}

// Coordinate identifies a replaceable or addressable slot: the triple
// (kind, author, d-tag). Non-addressable events use an empty D.
type Coordinate struct {
	Kind   uint16
	Author PubKey
	D      string
}

// CoordinateOf returns the coordinate an event occupies, valid only when
// IsReplaceableKind(e.Kind) || IsAddressableKind(e.Kind).
func CoordinateOf(e Event) Coordinate {
	return Coordinate{Kind: e.Kind, Author: e.PubKey, D: e.Tags.D()}
}

// IsReplaceableKind reports whether kind is replaceable per-author: only
// the newest event of that kind from a given author is retained. Ranges
// follow NIP-01: kind 0 (metadata), 3 (contacts), and 10000-19999.
func IsReplaceableKind(kind uint16) bool {
	return kind == 0 || kind == 3 || (kind >= 10000 && kind <= 19999)
}

// IsAddressableKind reports whether kind is addressable: replaceable per
// (author, d-tag) rather than per-author alone. Range 30000-39999.
func IsAddressableKind(kind uint16) bool {
	return kind >= 30000 && kind <= 39999
}

// IsReplacementCandidate reports whether a and b occupy the same
// replaceable or addressable coordinate and so compete for the same slot.
func IsReplacementCandidate(a, b Event) bool {
	switch {
	case IsReplaceableKind(a.Kind):
		return a.Kind == b.Kind && a.PubKey == b.PubKey
	case IsAddressableKind(a.Kind):
		return a.Kind == b.Kind && a.PubKey == b.PubKey && a.Tags.D() == b.Tags.D()
	default:
		return false
	}
}
