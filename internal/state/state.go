// Package state provides explicit, mutex-guarded state containers for
// client-side use. Each container notifies subscribers on mutation;
// there are no package-level singletons, callers own the instances.
package state

import "sync"

// Unsubscribe removes a previously registered listener.
type Unsubscribe func()

// notifier implements subscriber bookkeeping shared by the containers.
// Listeners run synchronously on the mutating goroutine, outside the
// container lock.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func (n *notifier) subscribe(fn func()) Unsubscribe {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
