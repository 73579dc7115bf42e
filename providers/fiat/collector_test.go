package fiat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionHubResolvesExactlyOnce(t *testing.T) {
	hub := newCompletionHub()
	pending := hub.register("ref-1")

	ok := hub.resolve("ref-1", CollectResult{Status: CollectSucceeded, Reference: "ref-1"})
	require.True(t, ok)

	// a racing second delivery must not produce a second result
	ok = hub.resolve("ref-1", CollectResult{Status: CollectFailed, Reference: "ref-1"})
	require.True(t, ok)

	res := <-pending.done
	assert.Equal(t, CollectSucceeded, res.Status)

	select {
	case <-pending.done:
		t.Fatal("pending collection resolved twice")
	default:
	}
}

func TestCompletionHubUnknownReference(t *testing.T) {
	hub := newCompletionHub()
	assert.False(t, hub.resolve("missing", CollectResult{Status: CollectSucceeded}))
}

func TestCompletionHubDropDetachesLateWebhook(t *testing.T) {
	hub := newCompletionHub()
	hub.register("ref-2")
	hub.drop("ref-2")

	assert.False(t, hub.resolve("ref-2", CollectResult{Status: CollectSucceeded}))
}
