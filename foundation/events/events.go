// Package events fans ledger events out to subscribers such as websocket
// clients. Events are the raw strings produced by the ledger's event handler,
// prefixed with the package that raised them ("state:", "worker:", "pow:").
package events

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// messageBuffer is the number of messages held for a subscriber. A message
// is dropped if the subscriber's buffer is full.
const messageBuffer = 100

// subscriber is a registered channel and the topics it asked for. No topics
// means every event.
type subscriber struct {
	ch     chan string
	topics []string
}

func (sub subscriber) wants(s string) bool {
	if len(sub.topics) == 0 {
		return true
	}

	for _, topic := range sub.topics {
		if strings.HasPrefix(s, topic+":") {
			return true
		}
	}

	return false
}

// =============================================================================

// Events maintains the set of subscribers by unique id.
type Events struct {
	m       map[string]subscriber
	mu      sync.RWMutex
	dropped atomic.Uint64
}

// New constructs an events value for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]subscriber),
	}
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.m {
		delete(evt.m, id)
		close(sub.ch)
	}
}

// Acquire registers the id and returns the channel events are delivered on.
// When topics are provided only events raised by those packages are
// delivered. Acquiring an id twice returns the existing channel.
func (evt *Events) Acquire(id string, topics ...string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.m[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:     make(chan string, messageBuffer),
		topics: topics,
	}
	evt.m[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(sub.ch)

	return nil
}

// Send delivers the event to every interested subscriber without blocking.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.m {
		if !sub.wants(s) {
			continue
		}

		select {
		case sub.ch <- s:
		default:
			evt.dropped.Add(1)
		}
	}
}

// Stats returns the number of subscribers and how many events were dropped
// because a subscriber fell behind.
func (evt *Events) Stats() (subscribers int, dropped uint64) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m), evt.dropped.Load()
}
