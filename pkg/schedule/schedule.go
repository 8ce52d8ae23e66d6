// Package schedule abstracts deferred execution behind a small port so the
// widget's debounce and animation timers can run on real time in production
// and on a hand-cranked clock in tests.
package schedule

import (
	"sync"
	"time"
)

// Timer is a handle to scheduled work.
type Timer interface {
	// Stop cancels the work if it has not run yet and reports whether the
	// cancellation happened in time.
	Stop() bool
}

// Scheduler defers a function by a duration.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// Real returns the wall-clock scheduler used outside tests.
func Real() Scheduler { return realScheduler{} }

// Manual is a deterministic scheduler driven by Advance. Callbacks run on
// the goroutine calling Advance, in due-time order, with ties broken by
// scheduling order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	owner *Manual
	due   time.Duration
	seq   int
	fn    func()
	done  bool
}

// NewManual returns a manual scheduler starting at time zero.
func NewManual() *Manual { return &Manual{} }

// AfterFunc schedules fn to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{owner: m, due: m.now + d, seq: m.seq, fn: fn}
	m.seq++
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, cur := range m.tasks {
		if cur == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	return true
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled by callbacks run too when their due time lands inside the
// same advance window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		next := m.takeDue(target)
		if next == nil {
			break
		}
		m.mu.Unlock()
		next.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// takeDue pops the earliest task due at or before target, updating the clock
// to its due time. Caller holds the lock.
func (m *Manual) takeDue(target time.Duration) *manualTask {
	best := -1
	for i, t := range m.tasks {
		if t.due > target {
			continue
		}
		if best == -1 || t.due < m.tasks[best].due || (t.due == m.tasks[best].due && t.seq < m.tasks[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	t := m.tasks[best]
	m.tasks = append(m.tasks[:best], m.tasks[best+1:]...)
	t.done = true
	if t.due > m.now {
		m.now = t.due
	}
	return t
}

// Pending returns the number of tasks waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the manual clock's current reading.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
