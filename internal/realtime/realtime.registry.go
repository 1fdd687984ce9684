// FilePath: internal/realtime/realtime.registry.go
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// session wraps one websocket connection. Writes are serialized because the
// fan-out path writes to a session from another connection's read loop.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Registry maps a sensor id to at most one active outbound channel. A
// second connection for the same id silently replaces the entry without
// closing the first; delivery is best-effort with no guarantee, retry or
// backpressure.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

// put registers a channel under a sensor id, last writer wins.
func (r *Registry) put(sensorID string, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sensorID] = s
}

// get returns the current channel for a sensor id, if any.
func (r *Registry) get(sensorID string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sensorID]
	return s, ok
}

// drop removes the entry only when it still points at the given session, so
// a replaced channel closing late cannot evict its successor.
func (r *Registry) drop(sensorID string, s *session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[sensorID]; ok && current == s {
		delete(r.sessions, sensorID)
		return true
	}
	return false
}

// Len reports the number of registered channels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
