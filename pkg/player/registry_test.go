package player

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsSingleFlight(t *testing.T) {
	h := newTestHarness()

	const n = 10
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
	assert.Equal(t, 1, h.connector.joinCount())
	h.registry.Remove("g1")
}

func TestJoinFailureLeavesNoSession(t *testing.T) {
	h := newTestHarness()
	h.connector.joinErr = errors.New("missing permissions")

	_, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
	var cerr *ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "g1", cerr.GuildID)
	assert.Nil(t, h.registry.Get("g1"))

	// A later attempt may succeed once the transient cause clears.
	h.connector.joinErr = nil
	sess, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	h.registry.Remove("g1")
}

func TestRemoveIsIdempotent(t *testing.T) {
	h := newTestHarness()
	_, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
	require.NoError(t, err)

	h.registry.Remove("g1")
	assert.Nil(t, h.registry.Get("g1"))
	assert.True(t, h.connector.conn("g1").isDisconnected())

	// Double leave must not panic or error.
	h.registry.Remove("g1")
	h.registry.Remove("never-joined")
}

func TestRejoinAfterRemove(t *testing.T) {
	h := newTestHarness()
	first, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
	require.NoError(t, err)
	h.registry.Remove("g1")

	second, err := h.registry.GetOrCreate(context.Background(), "g1", "vc1")
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	_, err = second.Play(context.Background(), "alice", "a")
	require.NoError(t, err)
	h.registry.Remove("g1")
}

func TestSessionsSnapshot(t *testing.T) {
	h := newTestHarness()
	assert.Empty(t, h.registry.Sessions())

	for _, g := range []string{"g1", "g2", "g3"} {
		_, err := h.registry.GetOrCreate(context.Background(), g, "vc")
		require.NoError(t, err)
	}
	assert.Len(t, h.registry.Sessions(), 3)

	h.registry.Remove("g2")
	assert.Len(t, h.registry.Sessions(), 2)

	for _, s := range h.registry.Sessions() {
		s.Close()
	}
	assert.Empty(t, h.registry.Sessions())
}
