package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessDescendingByCreatedAtAscendingByID(t *testing.T) {
	a := Owned(Event{ID: id(1), CreatedAt: 100})
	b := Owned(Event{ID: id(2), CreatedAt: 200})
	c := Owned(Event{ID: id(3), CreatedAt: 100})

	assert.True(t, Less(b, a)) // newer sorts first
	assert.True(t, Less(a, c)) // tie on created_at, lower id sorts first
	assert.False(t, Less(a, b))
}

func TestQueryEventIntoOwnedIdempotent(t *testing.T) {
	qe := Owned(Event{ID: id(1), Content: "x"})
	lifted := qe.IntoOwned()
	assert.False(t, lifted.IsBorrowed())
	assert.Equal(t, "x", lifted.Content())
}

type fakeBorrow struct {
	e Event
}

func (f fakeBorrow) ID() ID            { return f.e.ID }
func (f fakeBorrow) PubKey() PubKey    { return f.e.PubKey }
func (f fakeBorrow) CreatedAt() uint64 { return f.e.CreatedAt }
func (f fakeBorrow) Content() string   { return f.e.Content }
func (f fakeBorrow) ToOwned() Event    { return f.e }

func TestBorrowedLiftsOnIntoOwned(t *testing.T) {
	qe := Borrowed(fakeBorrow{e: Event{ID: id(1), Content: "borrowed"}})
	require.True(t, qe.IsBorrowed())

	owned := qe.IntoOwned()
	assert.False(t, owned.IsBorrowed())
	assert.Equal(t, "borrowed", owned.Content())
}

func TestQueryEventsIntoOwnedLiftsEveryElement(t *testing.T) {
	stream := NewQueryEventList([]QueryEvent{
		Borrowed(fakeBorrow{e: Event{ID: id(1)}}),
		Owned(Event{ID: id(2)}),
	})

	lifted := stream.IntoOwned()
	require.Len(t, lifted, 2)
	assert.False(t, lifted[0].IsBorrowed())
	assert.False(t, lifted[1].IsBorrowed())
}
