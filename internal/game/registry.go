package game

import "sync"

// registry maps room codes to the actors of live rooms
type registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomActor
}

func newRegistry() *registry {
	return &registry{rooms: make(map[string]*roomActor)}
}

func (r *registry) Get(code string) *roomActor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[code]
}

// GetOrCreate returns the actor for code, building it with create when absent.
// created is true only for the caller whose create result was stored.
func (r *registry) GetOrCreate(code string, create func(code string) *roomActor) (a *roomActor, created bool) {
	if a := r.Get(code); a != nil {
		return a, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.rooms[code]; ok {
		return a, false
	}
	a = create(code)
	r.rooms[code] = a
	return a, true
}

// Remove deletes code only while it still maps to a, so a finished actor
// never evicts a newer one.
func (r *registry) Remove(code string, a *roomActor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.rooms[code]; ok && cur == a {
		delete(r.rooms, code)
		return true
	}
	return false
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *registry) all() []*roomActor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*roomActor, 0, len(r.rooms))
	for _, a := range r.rooms {
		out = append(out, a)
	}
	return out
}
