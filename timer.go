package catkin

import (
	"math"
	"sort"
)

// Scheduler runs callbacks after a delay on the frame thread.
type Scheduler interface {
	// Schedule arranges for fn to run once, delaySeconds from now.
	Schedule(fn func(), delaySeconds float64) *Task
}

// Task is a scheduled callback. The zero value is an unscheduled task.
type Task struct {
	fn        func()
	due       int64
	seq       uint64
	scheduled bool
	timer     *Timer
}

// Cancel unschedules the task. Cancelling an unscheduled or already-run task
// does nothing.
func (t *Task) Cancel() {
	if t == nil || !t.scheduled {
		return
	}
	t.scheduled = false
	if t.timer != nil {
		t.timer.remove(t)
	}
}

// IsScheduled reports whether the task is still waiting to run.
func (t *Task) IsScheduled() bool {
	return t != nil && t.scheduled
}

// Timer is a frame-driven Scheduler. Time advances only through Update, so a
// paused game pauses its timers. Time is kept in integer nanoseconds so that
// repeated frame steps land exactly on their deadlines.
type Timer struct {
	now   int64
	seq   uint64
	tasks []*Task
	due   []*Task // reused buffer for tasks run by Update
}

// NewTimer creates an empty timer.
func NewTimer() *Timer {
	return &Timer{}
}

// Schedule implements Scheduler. A negative delay is treated as zero; such
// tasks run on the next Update.
func (t *Timer) Schedule(fn func(), delaySeconds float64) *Task {
	t.seq++
	task := &Task{
		fn:        fn,
		due:       t.now + secondsToNanos(max(delaySeconds, 0)),
		seq:       t.seq,
		scheduled: true,
		timer:     t,
	}
	t.tasks = append(t.tasks, task)
	return task
}

// Update advances the clock by dt seconds and runs every task that became
// due, earliest first. Tasks scheduled by those callbacks wait for a later
// Update. Returns the number of tasks run.
func (t *Timer) Update(dt float64) int {
	if dt > 0 {
		t.now += secondsToNanos(dt)
	}

	t.due = t.due[:0]
	kept := t.tasks[:0]
	for _, task := range t.tasks {
		if task.due <= t.now {
			t.due = append(t.due, task)
		} else {
			kept = append(kept, task)
		}
	}
	clear(t.tasks[len(kept):])
	t.tasks = kept

	sort.Slice(t.due, func(i, j int) bool {
		if t.due[i].due != t.due[j].due {
			return t.due[i].due < t.due[j].due
		}
		return t.due[i].seq < t.due[j].seq
	})

	ran := 0
	for _, task := range t.due {
		// A callback earlier in this batch may have cancelled it.
		if !task.scheduled {
			continue
		}
		task.scheduled = false
		task.fn()
		ran++
	}
	clear(t.due)
	return ran
}

// Now returns the timer's clock in seconds.
func (t *Timer) Now() float64 {
	return float64(t.now) / 1e9
}

// Len returns the number of pending tasks.
func (t *Timer) Len() int {
	return len(t.tasks)
}

// Clear cancels every pending task.
func (t *Timer) Clear() {
	for _, task := range t.tasks {
		task.scheduled = false
	}
	clear(t.tasks)
	t.tasks = t.tasks[:0]
}

func (t *Timer) remove(task *Task) {
	for i, x := range t.tasks {
		if x == task {
			copy(t.tasks[i:], t.tasks[i+1:])
			t.tasks[len(t.tasks)-1] = nil
			t.tasks = t.tasks[:len(t.tasks)-1]
			return
		}
	}
}

func secondsToNanos(s float64) int64 {
	return int64(math.Round(s * 1e9))
}
