// Package observe provides a minimal publish/subscribe value container.
// A single owner publishes; any number of subscribers are notified
// synchronously with the new value. Listeners must not call back into
// the publishing component from inside their callback.
package observe

import "sync"

// Listener receives each published value.
type Listener[T any] func(T)

// Unsubscribe detaches a listener. Safe to call more than once.
type Unsubscribe func()

// Value holds the latest published value and broadcasts changes.
// New subscribers immediately receive the current value, so a late
// subscriber and an early one always agree.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	listeners map[int]Listener[T]
	nextID    int
}

// NewValue creates a Value seeded with initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current:   initial,
		listeners: make(map[int]Listener[T]),
	}
}

// Get returns the latest published value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set publishes a new value to all subscribers.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.current = value
	notify := make([]Listener[T], 0, len(v.listeners))
	for _, l := range v.listeners {
		notify = append(notify, l)
	}
	v.mu.Unlock()

	for _, l := range notify {
		l(value)
	}
}

// Subscribe registers a listener and invokes it once with the current
// value before returning.
func (v *Value[T]) Subscribe(listener Listener[T]) Unsubscribe {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = listener
	current := v.current
	v.mu.Unlock()

	listener(current)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}
