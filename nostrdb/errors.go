package nostrdb

import "github.com/pkg/errors"

// Kind classifies a façade error without forcing callers to match on a
// grab-bag of sentinel values.
type Kind int

const (
	// KindBackend wraps an opaque lower-level failure; the engine never
	// inspects the cause.
	KindBackend Kind = iota
	// KindNotSupported means the backend refuses this operation structurally.
	KindNotSupported
	// KindNotFound means a keyed lookup found no record.
	KindNotFound
	// KindWrongEventKind means a kind-specific operation received an event
	// of the wrong kind.
	KindWrongEventKind
)

// Error is the façade's error taxonomy (spec §7). The core surfaces these
// verbatim: it never swallows, retries, or logs them.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotSupported:
		return "nostrdb: not supported: " + e.cause.Error()
	case KindNotFound:
		return "nostrdb: not found: " + e.cause.Error()
	case KindWrongEventKind:
		return "nostrdb: wrong event kind: " + e.cause.Error()
	default:
		return "nostrdb: backend error: " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Backend wraps cause as an infrastructural failure.
func Backend(cause error) error {
	return &Error{Kind: KindBackend, cause: errors.WithStack(cause)}
}

// NotSupportedf builds a KindNotSupported error.
func NotSupportedf(format string, args ...any) error {
	return &Error{Kind: KindNotSupported, cause: errors.Errorf(format, args...)}
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, cause: errors.Errorf(format, args...)}
}

// WrongEventKindf builds a KindWrongEventKind error.
func WrongEventKindf(format string, args ...any) error {
	return &Error{Kind: KindWrongEventKind, cause: errors.Errorf(format, args...)}
}

// IsNotFound reports whether err (or something it wraps) is a KindNotFound
// façade error, matching vechain-thor's repo.IsNotFound predicate idiom.
func IsNotFound(err error) bool { return kindIs(err, KindNotFound) }

// IsNotSupported reports whether err is a KindNotSupported façade error.
func IsNotSupported(err error) bool { return kindIs(err, KindNotSupported) }

func kindIs(err error, k Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == k
	}
	return false
}
