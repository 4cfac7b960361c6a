package runner

import (
	"testing"
	"time"
)

func TestManualSchedulerEvery(t *testing.T) {
	s := NewManualScheduler()
	var fired []time.Duration
	s.Every(100*time.Millisecond, func() { fired = append(fired, s.Now()) })

	s.Advance(99 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("fired early at %v", fired)
	}

	s.Advance(251 * time.Millisecond)
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(fired) != len(want) {
		t.Fatalf("fired %v, expected %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fire %d at %v, expected %v", i, fired[i], want[i])
		}
	}
	if s.Now() != 350*time.Millisecond {
		t.Errorf("Now() = %v, expected 350ms", s.Now())
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	var task Task
	task = s.Every(10*time.Millisecond, func() {
		count++
		if count == 3 {
			task.Cancel()
		}
	})

	s.Advance(time.Second)

	if count != 3 {
		t.Errorf("count = %d, expected 3", count)
	}
	if task.Active() {
		t.Error("cancelled task still active")
	}
	if s.ActiveTasks() != 0 {
		t.Errorf("ActiveTasks() = %d, expected 0", s.ActiveTasks())
	}
}

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []string
	s.Every(30*time.Millisecond, func() { order = append(order, "slow") })
	s.Every(20*time.Millisecond, func() { order = append(order, "fast") })

	s.Advance(60 * time.Millisecond)

	// Ties fire in scheduling order.
	want := []string{"fast", "slow", "fast", "slow", "fast"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, expected %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, expected %v", order, want)
		}
	}
}
