package filter

import "github.com/radmakr/nostr/event"

// MatchesCoordinate reports whether f's kind, author and "d" tag
// constraints all admit coord. An attribute f leaves unconstrained admits
// any value, so a filter with none of these constraints matches every
// coordinate.
func MatchesCoordinate(f Filter, coord event.Coordinate) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, coord.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !containsPubKey(f.Authors, coord.Author) {
		return false
	}
	if ds, ok := f.GenericTags['d']; ok {
		found := false
		for _, d := range ds {
			if d == coord.D {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
