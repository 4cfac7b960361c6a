package runner

import (
	"sort"
	"time"
)

// Task is a handle to a repeating scheduled callback.
type Task interface {
	// Cancel stops the task. A cancelled task never fires again.
	Cancel()
	// Active reports whether the task is still scheduled.
	Active() bool
}

// Scheduler runs callbacks on a fixed period. Implementations must invoke
// callbacks on the same logical thread that drives FrameTick.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// ManualScheduler is a Scheduler driven by explicit time advancement.
// It makes the wall-clock score tick deterministic in tests and headless runs.
type ManualScheduler struct {
	now     time.Duration
	nextSeq int
	tasks   []*manualTask
}

type manualTask struct {
	seq      int
	interval time.Duration
	next     time.Duration
	fn       func()
	active   bool
}

func (t *manualTask) Cancel()      { t.active = false }
func (t *manualTask) Active() bool { return t.active }

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every schedules fn to run every interval, first after one interval.
func (m *ManualScheduler) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.nextSeq++
	t := &manualTask{
		seq:      m.nextSeq,
		interval: interval,
		next:     m.now + interval,
		fn:       fn,
		active:   true,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing due tasks in time order.
// Tasks cancelled by an earlier callback in the same advance do not fire.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		due := m.nextDue(target)
		if due == nil {
			break
		}
		m.now = due.next
		due.next += due.interval
		due.fn()
	}
	m.now = target
	m.compact()
}

// nextDue returns the earliest active task due at or before target.
func (m *ManualScheduler) nextDue(target time.Duration) *manualTask {
	var due []*manualTask
	for _, t := range m.tasks {
		if t.active && t.next <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next != due[j].next {
			return due[i].next < due[j].next
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// compact drops cancelled tasks.
func (m *ManualScheduler) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if t.active {
			live = append(live, t)
		}
	}
	m.tasks = live
}

// ActiveTasks returns the number of scheduled tasks.
func (m *ManualScheduler) ActiveTasks() int {
	n := 0
	for _, t := range m.tasks {
		if t.active {
			n++
		}
	}
	return n
}

// Now returns the scheduler's current time.
func (m *ManualScheduler) Now() time.Duration {
	return m.now
}
