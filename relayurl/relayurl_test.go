package relayurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	r, err := Parse("wss://relay.damus.io")
	require.NoError(t, err)
	assert.Equal(t, "wss://relay.damus.io", r.String())
}

func TestParseCanonicalizesCaseAndTrailingSlash(t *testing.T) {
	a, err := Parse("WSS://Relay.Damus.IO/")
	require.NoError(t, err)
	b, err := Parse("wss://relay.damus.io")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestParseRejectsBadScheme(t *testing.T) {
	_, err := Parse("https://relay.damus.io")
	assert.Error(t, err)
}

func TestParseRejectsMissingHost(t *testing.T) {
	_, err := Parse("wss://")
	assert.Error(t, err)
}
