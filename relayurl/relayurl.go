// Package relayurl implements RelayUrl: a validated URL whose equality is
// defined on its canonical form, not its original text.
package relayurl

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// RelayUrl is a validated relay address. Two RelayUrl values compare equal
// iff their canonical forms match, even when parsed from differently
// cased or trailing-slash-varying input.
type RelayUrl struct {
	canonical string
}

// Parse validates raw as a relay URL: scheme must be ws or wss, and a
// host must be present. The canonical form lowercases scheme and host and
// strips a bare trailing slash with an empty path.
func Parse(raw string) (RelayUrl, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return RelayUrl{}, errors.Wrap(err, "relayurl: parse")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "ws" && scheme != "wss" {
		return RelayUrl{}, errors.Errorf("relayurl: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return RelayUrl{}, errors.New("relayurl: missing host")
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	if u.Path == "/" {
		u.Path = ""
	}

	return RelayUrl{canonical: u.String()}, nil
}

// String returns the canonical form.
func (r RelayUrl) String() string { return r.canonical }

// Equal reports whether r and other share a canonical form.
func (r RelayUrl) Equal(other RelayUrl) bool { return r.canonical == other.canonical }

// IsZero reports whether r is the zero value (never produced by Parse).
func (r RelayUrl) IsZero() bool { return r.canonical == "" }
