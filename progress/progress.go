package progress

import (
	"sync"
	"time"
)

// Delta is an incremental counter change. Fields are signed.
type Delta struct {
	Created          int
	Executing        int
	Completed        int
	Failed           int
	AlreadyCompleted int
	Deleted          int
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	StartedAt        time.Time `json:"startedAt"`
	Created          int       `json:"created"`
	Executing        int       `json:"executing"`
	Completed        int       `json:"completed"`
	Failed           int       `json:"failed"`
	AlreadyCompleted int       `json:"alreadyCompleted"`
	Deleted          int       `json:"deleted"`
}

// Progress aggregates counters; it is safe for concurrent use and a nil
// *Progress ignores updates.
type Progress struct {
	mu       sync.Mutex
	stats    Stats
	onChange func(Stats)
}

// New creates a tracker started at startedAt.
func New(startedAt time.Time) *Progress {
	return &Progress{stats: Stats{StartedAt: startedAt}}
}

// Update applies d. The onChange callback, if any, runs outside the lock
// with a copy of the updated counters.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.stats.Created += d.Created
	p.stats.Executing += d.Executing
	p.stats.Completed += d.Completed
	p.stats.Failed += d.Failed
	p.stats.AlreadyCompleted += d.AlreadyCompleted
	p.stats.Deleted += d.Deleted
	snapshot := p.stats
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Stats {
	if p == nil {
		return Stats{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Stats)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}
