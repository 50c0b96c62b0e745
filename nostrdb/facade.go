// Package nostrdb defines the database façade every storage backend
// implements: the administrative and events contracts, the save/check
// status enums, and the error taxonomy backends report through.
package nostrdb

import (
	"context"

	"github.com/radmakr/nostr/event"
	"github.com/radmakr/nostr/events"
	"github.com/radmakr/nostr/filter"
	"github.com/radmakr/nostr/relayurl"
)

// BackendTag identifies which concrete backend a NostrDatabase is.
type BackendTag int

const (
	BackendMemory BackendTag = iota
	BackendSQLite
	BackendLMDB
)

func (b BackendTag) String() string {
	switch b {
	case BackendMemory:
		return "memory"
	case BackendSQLite:
		return "sqlite"
	case BackendLMDB:
		return "lmdb"
	default:
		return "unknown"
	}
}

// RejectedReason explains why save_event operationally rejected a
// candidate event — distinct from an infrastructural failure.
type RejectedReason int

const (
	RejectedOther RejectedReason = iota
	RejectedDuplicate
	RejectedDeleted
	RejectedReplaced
	RejectedInvalidDeletion
)

// SaveEventStatus is save_event's operational result: Success, or a
// Rejected reason. It is returned alongside a nil error — an error return
// means infrastructural failure, never an operational rejection.
type SaveEventStatus struct {
	Success  bool
	Rejected RejectedReason
}

// Accepted builds a successful SaveEventStatus.
func Accepted() SaveEventStatus { return SaveEventStatus{Success: true} }

// Reject builds a rejected SaveEventStatus for reason.
func Reject(reason RejectedReason) SaveEventStatus {
	return SaveEventStatus{Success: false, Rejected: reason}
}

// DatabaseEventStatus is check_id's result.
type DatabaseEventStatus int

const (
	StatusSaved DatabaseEventStatus = iota
	StatusDeleted
	StatusNotExistent
)

// NostrDatabase is the administrative contract every backend implements.
type NostrDatabase interface {
	Backend() BackendTag
	Wipe(ctx context.Context) error
}

// Transaction is a read-snapshot scope: queries run against it observe a
// consistent view unaffected by concurrent writes, and may yield borrowed
// QueryEvent views valid only for the transaction's lifetime.
type Transaction interface {
	Query(ctx context.Context, filters []filter.Filter) (event.QueryEvents, error)
	Close() error
}

// NostrEventsDatabase is the events contract every backend implements.
// Backends that cannot support an operation return a KindNotSupported
// error; callers must be prepared for it.
type NostrEventsDatabase interface {
	SaveEvent(ctx context.Context, ev event.Event) (SaveEventStatus, error)
	CheckID(ctx context.Context, id event.ID) (DatabaseEventStatus, error)
	HasCoordinateBeenDeleted(ctx context.Context, coord event.Coordinate, ts uint64) (bool, error)
	EventIDSeen(ctx context.Context, id event.ID, peer relayurl.RelayUrl) error
	EventSeenOnRelays(ctx context.Context, id event.ID) ([]relayurl.RelayUrl, bool, error)
	EventByID(ctx context.Context, id event.ID) (event.Event, bool, error)
	Count(ctx context.Context, filters []filter.Filter) (int, error)
	Query(ctx context.Context, filters []filter.Filter) (*events.Events, error)
	BeginTxn(ctx context.Context) (Transaction, error)
	NegentropyItems(ctx context.Context, f filter.Filter) ([]NegentropyItem, error)
	Delete(ctx context.Context, f filter.Filter) error
}

// NegentropyItem is a single (id, created_at) reconciliation tuple.
type NegentropyItem struct {
	ID        event.ID
	CreatedAt uint64
}
