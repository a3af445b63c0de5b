package notifier

import (
	"context"
	"sync"
	"time"
)

// MemoryNotifier records events in memory. Used in tests; FailWith makes
// every push fail to exercise best-effort delivery paths.
type MemoryNotifier struct {
	mu       sync.Mutex
	events   []Event
	failWith error
}

// NewMemoryNotifier creates an empty in-memory notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// FailWith makes subsequent pushes return err. Pass nil to restore delivery.
func (n *MemoryNotifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failWith = err
}

func (n *MemoryNotifier) Push(_ context.Context, ownerID, eventType string, payload map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.events = append(n.events, Event{
		Type:      eventType,
		OwnerID:   ownerID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Events returns a copy of everything pushed so far.
func (n *MemoryNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, len(n.events))
	copy(out, n.events)
	return out
}
