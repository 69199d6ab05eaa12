package flashcards

import "sync"

// Session is the per-client key/value slot storage the deck state lives in.
// Implementations are scoped to one client; the manager never sees request
// or cookie details.
type Session interface {
	Get(key string) any
	Put(key string, value any)
	Remove(key string)
}

// Session keys.
const (
	keyFilters    = "flashcards.filters"
	keyTotalCount = "flashcards.totalCount"
	keyCursor     = "flashcards.cursorIndex"
)

// MemorySession is an in-process Session, used by the CLI and tests.
type MemorySession struct {
	mu     sync.Mutex
	values map[string]any
}

func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]any)}
}

func (s *MemorySession) Get(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *MemorySession) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemorySession) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// intValue reads an integer slot. Session stores may round-trip ints as
// other numeric types.
func intValue(sess Session, key string) (int, bool) {
	switch v := sess.Get(key).(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
