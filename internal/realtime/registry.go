package realtime

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// ConnectionID uniquely identifies one registered connection. Ids are never
// reused: a fresh uuid is allocated per registration.
type ConnectionID string

// ConnectionState tracks the lifecycle of a realtime session.
type ConnectionState string

const (
	StatePending       ConnectionState = "pending"
	StateAuthenticated ConnectionState = "authenticated"
	StateAnonymous     ConnectionState = "anonymous"
	StateOpen          ConnectionState = "open"
	StateClosed        ConnectionState = "closed"
)

// Send failures surfaced by Connection.TrySend.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrBufferFull       = errors.New("send buffer full")
)

// Connection is one open realtime session. It is owned by the Registry from
// registration to deregistration; the outbound channel is the only part
// other goroutines touch, and only through TrySend/Outbound.
type Connection struct {
	ID       ConnectionID
	Identity *domain.Identity // nil for anonymous sessions

	send chan []byte

	mu     sync.Mutex
	state  ConnectionState
	closed bool
}

// TrySend enqueues one frame without blocking. A stalled consumer gets
// ErrBufferFull instead of stalling the producer; the caller decides
// whether to drop the connection.
func (c *Connection) TrySend(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Outbound exposes the delivery channel for the write pump. The channel is
// closed exactly once, on deregistration.
func (c *Connection) Outbound() <-chan []byte {
	return c.send
}

// State returns the current lifecycle state.
func (c *Connection) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.state = StateClosed
		close(c.send)
	}
}

// Registry tracks the set of currently open realtime sessions. All
// mutation goes through Register/Deregister; Snapshot gives broadcasters a
// point-in-time copy so delivery happens outside the lock.
type Registry struct {
	mu          sync.RWMutex
	connections map[ConnectionID]*Connection
	bufferSize  int
}

// NewRegistry builds an empty registry. bufferSize bounds each
// connection's outbound channel.
func NewRegistry(bufferSize int) *Registry {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Registry{
		connections: make(map[ConnectionID]*Connection),
		bufferSize:  bufferSize,
	}
}

// Register allocates a fresh connection id, stores the entry in the Open
// state and returns it. identity is nil for anonymous sessions. Safe under
// concurrent calls.
func (r *Registry) Register(identity *domain.Identity) *Connection {
	conn := &Connection{
		ID:       ConnectionID(uuid.NewString()),
		Identity: identity,
		send:     make(chan []byte, r.bufferSize),
		state:    StateOpen,
	}

	r.mu.Lock()
	r.connections[conn.ID] = conn
	r.mu.Unlock()

	return conn
}

// Deregister removes the entry and closes its outbound channel. Calling it
// for an already-removed id is a no-op: disconnects race with broadcasts
// and must never error or panic.
func (r *Registry) Deregister(id ConnectionID) {
	r.mu.Lock()
	conn, ok := r.connections[id]
	if ok {
		delete(r.connections, id)
	}
	r.mu.Unlock()

	if ok {
		conn.close()
	}
}

// Snapshot returns a point-in-time copy of the open connections, ordered by
// id, sufficient for delivery without holding the registry locked.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	return conns
}

// Size returns the number of open connections.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
