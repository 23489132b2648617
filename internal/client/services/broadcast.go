package services

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Broadcaster fans a value out to subscribers in subscription order.
type Broadcaster[T any] struct {
	mu   sync.Mutex
	next int
	subs []subscriber[T]
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broadcaster[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber with v. Must not be called with a
// container lock held.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	subs := append([]subscriber[T](nil), b.subs...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}
