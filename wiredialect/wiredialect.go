// Package wiredialect translates a domain filter.Filter into the narrower
// wire-level filter shape a backend understands (spec §4.5). The
// translation is a total function: it never fails, and the backend query
// it describes is always a superset of what filter.Filter.Matches accepts
// — callers are free to post-filter.
package wiredialect

import (
	"sort"

	"github.com/radmakr/nostr/filter"
)

// TagConstraint is one generic-tag constraint on the wire: a single-letter
// key paired with the set of accepted values.
type TagConstraint struct {
	Key    byte
	Values []string
}

// Filter is the backend wire dialect: every attribute omitted (nil/zero)
// means unconstrained. Kinds are widened to uint64 on the wire even though
// the domain type is uint16, matching real relay wire filters.
type Filter struct {
	IDs         [][32]byte
	Authors     [][32]byte
	Kinds       []uint64
	GenericTags []TagConstraint
	Since       *uint64
	Until       *uint64
	Limit       *uint64
}

// Translate converts f into the wire dialect. Empty attributes are
// omitted rather than emitted as empty constraints, per spec §4.5: an
// empty Kinds slice on the wire would (incorrectly) match nothing, so it
// must not be emitted at all when the domain filter left it unconstrained.
func Translate(f filter.Filter) Filter {
	out := Filter{
		Since: f.Since,
		Until: f.Until,
		Limit: f.Limit,
	}

	if len(f.IDs) > 0 {
		out.IDs = make([][32]byte, len(f.IDs))
		for i, id := range f.IDs {
			out.IDs[i] = id
		}
	}

	if len(f.Authors) > 0 {
		out.Authors = make([][32]byte, len(f.Authors))
		for i, pk := range f.Authors {
			out.Authors[i] = pk
		}
	}

	if len(f.Kinds) > 0 {
		out.Kinds = make([]uint64, len(f.Kinds))
		for i, k := range f.Kinds {
			out.Kinds[i] = uint64(k)
		}
	}

	if len(f.GenericTags) > 0 {
		keys := make([]byte, 0, len(f.GenericTags))
		for key, values := range f.GenericTags {
			if len(values) > 0 {
				keys = append(keys, key)
			}
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		out.GenericTags = make([]TagConstraint, 0, len(keys))
		for _, key := range keys {
			out.GenericTags = append(out.GenericTags, TagConstraint{Key: key, Values: f.GenericTags[key]})
		}
	}

	return out
}
