package sessync

import "sync"

// Broadcaster is a process-wide, zero-payload publish/subscribe signal for
// session transitions. Publish delivers synchronously to every subscriber
// registered at publish time, in registration order. There is no queueing
// and no replay: a subscriber registered after a publish never sees it and
// must read current session state directly at registration time.
type Broadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

type subscriber struct {
	id uint64
	fn func()
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers fn and returns its cancel function. Cancel is
// idempotent; after it returns, fn will not be called by later publishes.
func (b *Broadcaster) Subscribe(fn func()) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every currently registered handler in registration order.
// Handlers run outside the broadcaster's lock, so they may subscribe,
// unsubscribe, or publish again; a handler added during delivery does not
// receive the in-flight publish.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	handlers := make([]func(), len(b.subs))
	for i, sub := range b.subs {
		handlers[i] = sub.fn
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
