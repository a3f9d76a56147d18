package auth

import "sync"

// sessionWatchers fans session changes out to registered callbacks.
// Callbacks run on the goroutine that changed the session, outside provider locks.
type sessionWatchers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(*Identity)
}

// watch registers fn and calls it once with current, the way a fresh
// subscriber learns the present state.
func (w *sessionWatchers) watch(current *Identity, fn func(*Identity)) (cancel func()) {
	w.mu.Lock()
	if w.fns == nil {
		w.fns = make(map[int]func(*Identity))
	}
	key := w.next
	w.next++
	w.fns[key] = fn
	w.mu.Unlock()

	fn(current)

	return func() {
		w.mu.Lock()
		delete(w.fns, key)
		w.mu.Unlock()
	}
}

// notify passes each watcher its own copy of id; nil means signed out.
func (w *sessionWatchers) notify(id *Identity) {
	w.mu.Lock()
	fns := make([]func(*Identity), 0, len(w.fns))
	for _, fn := range w.fns {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		if id == nil {
			fn(nil)
			continue
		}
		cp := *id
		fn(&cp)
	}
}
