package router

import (
	"errors"
	"sync"
)

// Broker errors.
var (
	ErrReservedRouterID = errors.New("router: router ID is reserved")
)

// Subscriber is an endpoint that can be registered with a Broker.
type Subscriber interface {
	// RouterID returns the subscriber's router ID.
	RouterID() RouterID

	// OnMessage handles a delivered message.
	OnMessage(msg Message)
}

// Broker fans messages out to subscribers by message ID.
// It is safe for concurrent use.
type Broker struct {
	mu sync.RWMutex

	// Subscribers by message ID, in subscription order.
	subs map[MessageID][]Subscriber
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[MessageID][]Subscriber),
	}
}

// Subscribe registers sub for the given message IDs.
// Subscribing an already-subscribed (subscriber, ID) pair is a no-op.
func (b *Broker) Subscribe(sub Subscriber, ids ...MessageID) error {
	if sub.RouterID() > MaxRouterID {
		return ErrReservedRouterID
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range ids {
		if b.subscribed(sub, id) {
			continue
		}
		b.subs[id] = append(b.subs[id], sub)
	}
	return nil
}

// Unsubscribe removes sub from every message ID it is subscribed to.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, list := range b.subs {
		filtered := list[:0]
		for _, s := range list {
			if s != sub {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			delete(b.subs, id)
		} else {
			b.subs[id] = filtered
		}
	}
}

// Receive delivers msg to every subscriber of msg.ID matching dest.
// Handlers run synchronously on the caller's goroutine.
func (b *Broker) Receive(dest RouterID, msg Message) {
	b.mu.RLock()
	list := b.subs[msg.ID]
	// Copy under the read lock so handlers may themselves subscribe.
	targets := make([]Subscriber, 0, len(list))
	for _, sub := range list {
		if dest == AllRouters || sub.RouterID() == dest {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.OnMessage(msg)
	}
}

// SubscriberCount returns the number of subscribers for a message ID.
func (b *Broker) SubscriberCount(id MessageID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[id])
}

// subscribed reports whether sub is already subscribed to id.
// Caller holds b.mu.
func (b *Broker) subscribed(sub Subscriber, id MessageID) bool {
	for _, s := range b.subs[id] {
		if s == sub {
			return true
		}
	}
	return false
}

// Handler adapts a function to the Subscriber interface.
type Handler struct {
	id RouterID
	fn func(Message)
}

// NewHandler creates a Subscriber with the given router ID and handler
// function.
func NewHandler(id RouterID, fn func(Message)) *Handler {
	return &Handler{id: id, fn: fn}
}

// RouterID returns the handler's router ID.
func (h *Handler) RouterID() RouterID {
	return h.id
}

// OnMessage invokes the handler function.
func (h *Handler) OnMessage(msg Message) {
	if h.fn != nil {
		h.fn(msg)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Router     = (*Broker)(nil)
	_ Subscriber = (*Handler)(nil)
)
