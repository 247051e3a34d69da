package component

import "sync"

// Base carries the status a component reports back to the host after a run.
type Base struct {
	mu     sync.RWMutex
	status any
}

// SetStatus records v as the component's observable status.
func (b *Base) SetStatus(v any) {
	b.mu.Lock()
	b.status = v
	b.mu.Unlock()
}

// Status returns the last recorded status, nil if none.
func (b *Base) Status() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}
