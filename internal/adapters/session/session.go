// Package session keeps per-browser dashboard state in memory.
package session

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/pkg/metrics"
)

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store maps session IDs to dashboard state.
type Store interface {
	// Load returns the state for id and marks it as recently used.
	Load(ctx context.Context, id string) (dashboard.State, bool)

	// Save stores s under id, evicting the least recently used session when full.
	Save(ctx context.Context, id string, s dashboard.State)

	// Delete forgets id.
	Delete(ctx context.Context, id string)

	Size() int64
}

// node is one entry of the recency list.
type node struct {
	id    string
	state dashboard.State
	prev  *node
	next  *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	*n = node{}
}

// inMemoryStore keeps sessions in a map plus a doubly linked list ordered by
// recency. For bounded mode (maxSize > 0) the tail is evicted when full.
type inMemoryStore struct {
	mu       sync.Mutex
	entries  map[string]*node
	head     *node // most recently used
	tail     *node // least recently used
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryStore creates a session store with configuration options.
func NewInMemoryStore(opts ...Option) Store {
	s := &inMemoryStore{
		maxSize: 10_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.entries = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return s
}

func (s *inMemoryStore) Load(_ context.Context, id string) (dashboard.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.entries[id]
	if !ok {
		return dashboard.State{}, false
	}
	s.moveToFront(n)
	return clone(n.state), true
}

func (s *inMemoryStore) Save(_ context.Context, id string, st dashboard.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[id]; ok {
		n.state = clone(st)
		s.moveToFront(n)
		return
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictTail()
	}

	n := s.nodePool.Get().(*node)
	n.id = id
	n.state = clone(st)
	s.pushFront(n)
	s.entries[id] = n
	s.size.Add(1)
	metrics.UpdateSessions(len(s.entries))
}

func (s *inMemoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.entries[id]
	if !ok {
		return
	}
	s.remove(n)
	metrics.UpdateSessions(len(s.entries))
}

// Size returns the current number of sessions.
func (s *inMemoryStore) Size() int64 {
	return s.size.Load()
}

// evictTail drops the least recently used session.
// Must be called with s.mu held.
func (s *inMemoryStore) evictTail() {
	if s.tail == nil {
		return
	}
	s.remove(s.tail)
	metrics.RecordSessionEviction()
}

// remove unlinks n, deletes it from the map and returns it to the pool.
// Must be called with s.mu held.
func (s *inMemoryStore) remove(n *node) {
	s.unlink(n)
	delete(s.entries, n.id)
	n.reset()
	s.nodePool.Put(n)
	s.size.Add(-1)
}

func (s *inMemoryStore) moveToFront(n *node) {
	if s.head == n {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

func (s *inMemoryStore) pushFront(n *node) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

func (s *inMemoryStore) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// clone copies the compare slice so callers never share backing arrays.
func clone(st dashboard.State) dashboard.State {
	st.Compare = slices.Clone(st.Compare)
	return st
}
