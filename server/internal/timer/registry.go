package timer

import (
	"sort"
	"time"
)

// Registry owns every stopwatch of one assessment together with the single
// "currently active" pointer. It is not safe for concurrent use; the owning
// session serializes access.
type Registry struct {
	timers map[Key]State
	active *Key
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{timers: make(map[Key]State)}
}

// Get returns the stopwatch for k. A never-started stopwatch is idle at zero.
func (r *Registry) Get(k Key) State {
	if s, ok := r.timers[k]; ok {
		return s
	}
	return newState(k)
}

// Active returns the key of the running stopwatch, if any.
func (r *Registry) Active() (Key, bool) {
	if r.active == nil {
		return Key{}, false
	}
	return *r.active, true
}

// Start runs k. Any other running stopwatch is paused first; its key is
// returned so callers can report it.
func (r *Registry) Start(k Key) (stopped Key, didStop bool) {
	if r.active != nil && *r.active != k {
		stopped, didStop = *r.active, true
		r.timers[stopped] = r.Get(stopped).Pause()
	}
	r.timers[k] = r.Get(k).Start()
	active := k
	r.active = &active
	return stopped, didStop
}

// Pause stops accumulation on k.
func (r *Registry) Pause(k Key) {
	r.timers[k] = r.Get(k).Pause()
	r.clearActive(k)
}

// Record returns the accumulated seconds of k, rounded to a tenth. ok is
// false when the rounded value is zero, in which case nothing should be
// committed. Recording does not stop a running stopwatch.
func (r *Registry) Record(k Key) (seconds float64, ok bool) {
	seconds = r.Get(k).Seconds()
	if seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

// Reset zeroes k and stops it if it is the active stopwatch.
func (r *Registry) Reset(k Key) {
	r.timers[k] = r.Get(k).Reset()
	r.clearActive(k)
}

// Tick advances only the stopwatch that is running at the time of the call.
func (r *Registry) Tick(d time.Duration) {
	if r.active == nil {
		return
	}
	k := *r.active
	r.timers[k] = r.Get(k).Tick(d)
}

// Forget drops every stopwatch of a statement.
func (r *Registry) Forget(statementID string) {
	for k := range r.timers {
		if k.StatementID == statementID {
			delete(r.timers, k)
		}
	}
	if r.active != nil && r.active.StatementID == statementID {
		r.active = nil
	}
}

// Snapshot lists all known stopwatches ordered by statement then condition.
func (r *Registry) Snapshot() []State {
	out := make([]State, 0, len(r.timers))
	for _, s := range r.timers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.StatementID != out[j].Key.StatementID {
			return out[i].Key.StatementID < out[j].Key.StatementID
		}
		return out[i].Key.Condition > out[j].Key.Condition
	})
	return out
}

func (r *Registry) clearActive(k Key) {
	if r.active != nil && *r.active == k {
		r.active = nil
	}
}
