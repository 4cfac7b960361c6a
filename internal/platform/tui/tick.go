// Package tui provides the Bubble Tea integration for the runner.
// It drives the session's two clocks, maps terminal input and renders
// the scene, menus and scoreboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/runner"
)

// TickMsg is sent to trigger a frame tick.
type TickMsg time.Time

// scoreTickMsg fires one scheduled task. Messages for cancelled tasks or
// for another scheduler are dropped.
type scoreTickMsg struct {
	owner *teaScheduler
	id    int
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// teaScheduler implements runner.Scheduler on top of tea.Tick. Callbacks
// run inside Update, on the same goroutine as the frame tick.
type teaScheduler struct {
	nextID  int
	tasks   map[int]*teaTask
	pending []tea.Cmd
}

type teaTask struct {
	owner    *teaScheduler
	id       int
	interval time.Duration
	fn       func()
	active   bool
}

func (t *teaTask) Cancel()      { t.active = false }
func (t *teaTask) Active() bool { return t.active }

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]*teaTask)}
}

// Every schedules fn every interval. The first tick command is queued
// until the next Drain.
func (s *teaScheduler) Every(interval time.Duration, fn func()) runner.Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	s.nextID++
	t := &teaTask{owner: s, id: s.nextID, interval: interval, fn: fn, active: true}
	s.tasks[t.id] = t
	s.pending = append(s.pending, t.cmd())
	return t
}

func (t *teaTask) cmd() tea.Cmd {
	msg := scoreTickMsg{owner: t.owner, id: t.id}
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return msg
	})
}

// Fire runs the task for a delivered tick and re-arms it.
func (s *teaScheduler) Fire(msg scoreTickMsg) {
	if msg.owner != s {
		return
	}
	id := msg.id
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	if !t.active {
		delete(s.tasks, id)
		return
	}
	t.fn()
	// fn may cancel its own task.
	if t.active {
		s.pending = append(s.pending, t.cmd())
	} else {
		delete(s.tasks, id)
	}
}

// Drain returns the queued tick commands.
func (s *teaScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// ActiveTasks returns the number of live tasks.
func (s *teaScheduler) ActiveTasks() int {
	n := 0
	for _, t := range s.tasks {
		if t.active {
			n++
		}
	}
	return n
}
