package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

func TestRegisterDeregister(t *testing.T) {
	registry := NewRegistry(8)

	conn := registry.Register(nil)
	require.NotEmpty(t, conn.ID)
	assert.Equal(t, StateOpen, conn.State())
	assert.Equal(t, 1, registry.Size())

	registry.Deregister(conn.ID)
	assert.Equal(t, 0, registry.Size())
	assert.Equal(t, StateClosed, conn.State())
}

func TestDeregisterIsIdempotent(t *testing.T) {
	registry := NewRegistry(8)

	conn := registry.Register(nil)
	registry.Deregister(conn.ID)
	// repeated and unknown ids must be silent no-ops
	registry.Deregister(conn.ID)
	registry.Deregister(ConnectionID("never-registered"))

	assert.Equal(t, 0, registry.Size())
}

func TestRegisterAllocatesUniqueIDs(t *testing.T) {
	registry := NewRegistry(8)

	seen := make(map[ConnectionID]bool)
	for i := 0; i < 100; i++ {
		conn := registry.Register(nil)
		require.False(t, seen[conn.ID])
		seen[conn.ID] = true
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	registry := NewRegistry(8)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := registry.Register(&domain.Identity{ID: "u", Role: domain.RoleUser, Active: true})
			_ = registry.Snapshot()
			registry.Deregister(conn.ID)
			registry.Deregister(conn.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, registry.Size())
}

func TestSnapshotIsPointInTime(t *testing.T) {
	registry := NewRegistry(8)

	a := registry.Register(nil)
	b := registry.Register(nil)

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)

	// mutations after the snapshot do not affect it
	registry.Deregister(a.ID)
	registry.Deregister(b.ID)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 0, registry.Size())
}

func TestTrySendAfterCloseFails(t *testing.T) {
	registry := NewRegistry(1)

	conn := registry.Register(nil)
	require.NoError(t, conn.TrySend([]byte("one")))
	assert.ErrorIs(t, conn.TrySend([]byte("two")), ErrBufferFull)

	registry.Deregister(conn.ID)
	assert.ErrorIs(t, conn.TrySend([]byte("three")), ErrConnectionClosed)
}
