// Package realtime fans out inquiry change notifications to in-process listeners.
//
// Every API instance holds one Redis subscription on ChangesChannel. Writers publish a
// ChangeEvent after each mutation of an inquiry or its messages; each instance hands it
// to the listeners whose filter matches. Listeners get a wake-up, not the data: the
// consumer re-queries the store, so a dropped duplicate wake-up loses nothing.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/chimgan/sales/internal/utils"
)

// ChangesChannel is the Redis pub/sub channel carrying ChangeEvents.
const ChangesChannel = "inquiry_changes"

// ChangeEvent says that an inquiry, or one of its messages, changed.
type ChangeEvent struct {
	InquiryID utils.SixID  `json:"inquiry_id"`
	OwnerID   *utils.SixID `json:"owner_id,omitempty"`
	UserID    *utils.SixID `json:"user_id,omitempty"`
}

// Involves reports whether id is the owner or the requester of the changed inquiry.
func (e ChangeEvent) Involves(id utils.SixID) bool {
	return (e.OwnerID != nil && *e.OwnerID == id) || (e.UserID != nil && *e.UserID == id)
}

// Publisher announces changes.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// Filter selects the events a listener cares about.
type Filter func(ChangeEvent) bool

// Listener receives a signal on C whenever a matching event arrives.
type Listener struct {
	C <-chan struct{}

	c      chan struct{}
	filter Filter
	hub    *Hub
	once   sync.Once
}

// Close detaches the listener from the hub. It is safe to call more than once.
func (l *Listener) Close() {
	l.once.Do(func() {
		l.hub.mu.Lock()
		delete(l.hub.listeners, l)
		l.hub.mu.Unlock()
	})
}

// Hub is the per-process fan-out point. With a nil Redis client it works in
// local mode: Publish dispatches directly to this process's listeners.
type Hub struct {
	rdb       *redis.Client
	mu        sync.RWMutex
	listeners map[*Listener]bool
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:       rdb,
		listeners: make(map[*Listener]bool),
	}
}

// Listen registers a listener. Register before querying so no change is missed.
func (h *Hub) Listen(filter Filter) *Listener {
	c := make(chan struct{}, 1)
	l := &Listener{C: c, c: c, filter: filter, hub: h}
	h.mu.Lock()
	h.listeners[l] = true
	h.mu.Unlock()
	return l
}

// Publish sends ev to every instance, this one included.
func (h *Hub) Publish(ctx context.Context, ev ChangeEvent) error {
	if h.rdb == nil {
		h.dispatch(ev)
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}
	if err := h.rdb.Publish(ctx, ChangesChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Run relays events from Redis to the local listeners until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := h.rdb.Subscribe(ctx, ChangesChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", ChangesChannel, err)
	}
	log.Printf("subscribed to Redis channel %s", ChangesChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s closed", ChangesChannel)
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("WARN: dropping malformed change event %q: %v", msg.Payload, err)
				continue
			}
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners {
		if l.filter != nil && !l.filter(ev) {
			continue
		}
		// A pending signal already covers this event.
		select {
		case l.c <- struct{}{}:
		default:
		}
	}
}

// Count returns the number of registered listeners.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
