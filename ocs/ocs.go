// Package ocs implements the Ordered Capped Set: a sorted container under a
// caller-supplied total order, with an optional maximum size and a
// predictable eviction policy. It is the fundamental container behind
// events.Events.
package ocs

import "github.com/google/btree"

// degree is the btree branching factor. 32 matches the value vechain-thor's
// cache package implicitly picks via container/heap's O(log n) behavior for
// similarly small in-memory working sets; btree's docs recommend 32-128 for
// in-memory trees of this size.
const degree = 32

// Policy selects which extreme is evicted when a Bounded set is full.
type Policy int

const (
	// PolicyFirst evicts the least element under the order.
	PolicyFirst Policy = iota
	// PolicyLast evicts the greatest element under the order.
	//
	// For events, whose order is descending by creation time, "greatest"
	// is the *oldest* event — so Last eviction discards the oldest event
	// when a newer one arrives, which is what a limit-N query wants.
	PolicyLast
)

// Capacity is either Unbounded or Bounded{Max, Policy}.
type Capacity struct {
	bounded bool
	max     int
	policy  Policy
}

// Unbounded returns a capacity with no eviction.
func Unbounded() Capacity { return Capacity{} }

// Bounded returns a capacity that evicts under policy once len reaches max.
// max must be > 0.
func Bounded(max int, policy Policy) Capacity {
	if max <= 0 {
		panic("ocs: Bounded requires max > 0")
	}
	return Capacity{bounded: true, max: max, policy: policy}
}

// IsBounded reports whether c imposes a maximum size.
func (c Capacity) IsBounded() bool { return c.bounded }

// Max returns the maximum size and whether c is bounded at all.
func (c Capacity) Max() (int, bool) { return c.max, c.bounded }

// Policy returns the eviction policy; meaningless when c is unbounded.
func (c Capacity) Policy() Policy { return c.policy }

// Equal reports whether two capacities describe the same policy.
func (c Capacity) Equal(other Capacity) bool {
	if c.bounded != other.bounded {
		return false
	}
	if !c.bounded {
		return true
	}
	return c.max == other.max && c.policy == other.policy
}

// InsertResult reports the outcome of Set.Insert.
type InsertResult[T any] struct {
	Inserted bool
	Evicted  *T
}

// Set is a sorted container of T ordered by a caller-supplied Less,
// optionally capped at a maximum size with a deterministic eviction policy.
//
// The Less function's induced equivalence (neither a<b nor b<a) must match
// T's domain equality, since Set treats order-equality as identity —
// event.Less satisfies this because its tie-break key is the event id, and
// two events with equal ids are byte-equal by the core's equality axiom.
type Set[T any] struct {
	tree *btree.BTreeG[T]
	cap  Capacity
	less btree.LessFunc[T]
}

// New creates an empty Set ordered by less with the given capacity.
func New[T any](less func(a, b T) bool, capacity Capacity) *Set[T] {
	return &Set[T]{
		tree: btree.NewG[T](degree, less),
		cap:  capacity,
		less: less,
	}
}

// Len returns the number of elements currently held.
func (s *Set[T]) Len() int { return s.tree.Len() }

// IsEmpty reports whether the set holds no elements.
func (s *Set[T]) IsEmpty() bool { return s.tree.Len() == 0 }

// Capacity returns the set's current capacity.
func (s *Set[T]) Capacity() Capacity { return s.cap }

// Contains reports whether an order-equal element is present.
func (s *Set[T]) Contains(v T) bool { return s.tree.Has(v) }

// First returns the element sorting first under the order (for
// descending-time event order, this is the newest element).
func (s *Set[T]) First() (T, bool) { return s.tree.Min() }

// Last returns the element sorting last under the order (the oldest, for
// descending-time event order).
func (s *Set[T]) Last() (T, bool) { return s.tree.Max() }

// Insert adds v, applying the capacity's eviction policy if the set is
// full. See Policy for the eviction rules.
func (s *Set[T]) Insert(v T) InsertResult[T] {
	if s.tree.Has(v) {
		return InsertResult[T]{}
	}
	if !s.cap.bounded {
		s.tree.ReplaceOrInsert(v)
		return InsertResult[T]{Inserted: true}
	}
	if s.tree.Len() < s.cap.max {
		s.tree.ReplaceOrInsert(v)
		return InsertResult[T]{Inserted: true}
	}
	switch s.cap.policy {
	case PolicyLast:
		greatest, _ := s.tree.Max()
		if s.less(v, greatest) {
			s.tree.Delete(greatest)
			s.tree.ReplaceOrInsert(v)
			return InsertResult[T]{Inserted: true, Evicted: &greatest}
		}
		return InsertResult[T]{}
	case PolicyFirst:
		least, _ := s.tree.Min()
		if s.less(least, v) {
			s.tree.Delete(least)
			s.tree.ReplaceOrInsert(v)
			return InsertResult[T]{Inserted: true, Evicted: &least}
		}
		return InsertResult[T]{}
	default:
		return InsertResult[T]{}
	}
}

// Remove deletes an order-equal element, reporting whether one was
// present. Unlike eviction, Remove is an explicit, capacity-independent
// deletion — used when a caller needs to retract a specific element (a
// superseded or deleted event) rather than let the capacity policy decide.
func (s *Set[T]) Remove(v T) bool {
	_, ok := s.tree.Delete(v)
	return ok
}

// Extend inserts every element of vs, in order, applying eviction per
// element exactly as repeated Insert calls would.
func (s *Set[T]) Extend(vs []T) {
	for _, v := range vs {
		s.Insert(v)
	}
}

// Iterate visits elements ascending by order (newest-first, for events)
// calling fn until it returns false or the set is exhausted.
func (s *Set[T]) Iterate(fn func(T) bool) {
	s.tree.Ascend(func(v T) bool { return fn(v) })
}

// ToSlice returns all elements in ascending order as a new slice.
func (s *Set[T]) ToSlice() []T {
	out := make([]T, 0, s.tree.Len())
	s.tree.Ascend(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// ChangeCapacity updates the set's capacity, evicting from the policy end
// until the new bound is satisfied if the new capacity is smaller.
func (s *Set[T]) ChangeCapacity(c Capacity) {
	s.cap = c
	if !c.bounded {
		return
	}
	for s.tree.Len() > c.max {
		switch c.policy {
		case PolicyLast:
			if greatest, ok := s.tree.Max(); ok {
				s.tree.Delete(greatest)
			}
		case PolicyFirst:
			if least, ok := s.tree.Min(); ok {
				s.tree.Delete(least)
			}
		}
	}
}

// Clone returns a deep copy sharing no mutable state with s.
func (s *Set[T]) Clone() *Set[T] {
	clone := New[T](s.less, s.cap)
	s.tree.Ascend(func(v T) bool {
		clone.tree.ReplaceOrInsert(v)
		return true
	})
	return clone
}

// Equal reports whether s and other contain order-equal elements in the
// same order-equal positions, ignoring capacity.
func (s *Set[T]) Equal(other *Set[T]) bool {
	if s.tree.Len() != other.tree.Len() {
		return false
	}
	equal := true
	otherSlice := other.ToSlice()
	i := 0
	s.tree.Ascend(func(v T) bool {
		o := otherSlice[i]
		if s.less(v, o) || s.less(o, v) {
			equal = false
			return false
		}
		i++
		return true
	})
	return equal
}
