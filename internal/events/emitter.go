// Package events provides the typed change-notification registries the
// settings store and the reactive bridge publish through.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Emitter fans one event type out to a set of listeners. Listener identity is
// the subscription key, so re-adding an existing key is a no-op and removal
// is idempotent.
type Emitter[T any] struct {
	mu        sync.Mutex
	listeners map[string]func(T)
}

func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{listeners: make(map[string]func(T))}
}

// Subscription detaches its listener when disposed. Dispose may be called
// more than once.
type Subscription struct {
	key    string
	remove func(string)
	once   sync.Once
}

func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.remove(s.key) })
}

// Subscribe registers fn under a fresh key and returns its subscription.
func (e *Emitter[T]) Subscribe(fn func(T)) *Subscription {
	return e.SubscribeWithKey(uuid.NewString(), fn)
}

// SubscribeWithKey registers fn under the caller's key. If the key is already
// registered the existing listener is kept and the call is a no-op.
func (e *Emitter[T]) SubscribeWithKey(key string, fn func(T)) *Subscription {
	e.mu.Lock()
	if _, exists := e.listeners[key]; !exists {
		e.listeners[key] = fn
	}
	e.mu.Unlock()
	return &Subscription{key: key, remove: e.unsubscribe}
}

func (e *Emitter[T]) unsubscribe(key string) {
	e.mu.Lock()
	delete(e.listeners, key)
	e.mu.Unlock()
}

// Fire invokes every registered listener synchronously with event.
func (e *Emitter[T]) Fire(event T) {
	e.mu.Lock()
	fns := make([]func(T), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Len reports the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
