package procs

import (
	"sync"
)

// Registry holds the background processes launched by a shell session.
//
// Processes stay registered until they are removed, even if they exit on
// their own. Reaper goroutines and the dispatcher both touch registered
// processes so access is serialized.
type Registry struct {
	mu    sync.Mutex
	procs map[int]*Process
	order []int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		procs: make(map[int]*Process),
	}
}

// Add registers a process, replacing any earlier process with the same PID.
func (r *Registry) Add(p *Process) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.procs[p.Pid]; ok {
		r.removeLocked(p.Pid)
	}
	r.procs[p.Pid] = p
	r.order = append(r.order, p.Pid)
}

// Get looks up a registered process.
func (r *Registry) Get(pid int) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.procs[pid]
	return p, ok
}

// Remove unregisters a process and returns it if it was present.
func (r *Registry) Remove(pid int) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(pid)
}

func (r *Registry) removeLocked(pid int) (*Process, bool) {
	p, ok := r.procs[pid]
	if !ok {
		return nil, false
	}

	delete(r.procs, pid)
	for i, v := range r.order {
		if v == pid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, true
}

// Pids returns the registered PIDs in launch order.
func (r *Registry) Pids() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int(nil), r.order...)
}

// Len returns the number of registered processes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.order)
}

// Drain empties the registry and returns what it held in launch order. The
// snapshot and the reset happen atomically.
func (r *Registry) Drain() []*Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Process, 0, len(r.order))
	for _, pid := range r.order {
		out = append(out, r.procs[pid])
	}

	r.procs = make(map[int]*Process)
	r.order = nil
	return out
}
