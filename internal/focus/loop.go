package focus

import (
	"sync"
	"time"
)

// TaskID identifies a scheduled task for cancellation.
type TaskID uint64

type task struct {
	id    TaskID
	due   time.Time
	every time.Duration
	fn    func()
}

// Loop holds deferred and recurring tasks that run on the caller's goroutine.
// The host calls Advance with the current time (a frame tick in the UI, a
// virtual time in tests). Tasks never run concurrently with each other.
type Loop struct {
	mu    sync.Mutex
	now   time.Time
	seq   TaskID
	tasks map[TaskID]*task
}

func NewLoop(start time.Time) *Loop {
	return &Loop{now: start, tasks: map[TaskID]*task{}}
}

// Now is the time of the last Advance, or of the task currently running.
func (l *Loop) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// After schedules fn once, d after Now.
func (l *Loop) After(d time.Duration, fn func()) TaskID {
	return l.add(d, 0, fn)
}

// Every schedules fn every d, first run d after Now. Non-positive d is a no-op.
func (l *Loop) Every(d time.Duration, fn func()) TaskID {
	if d <= 0 {
		return 0
	}
	return l.add(d, d, fn)
}

func (l *Loop) add(d, every time.Duration, fn func()) TaskID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.tasks[l.seq] = &task{id: l.seq, due: l.now.Add(d), every: every, fn: fn}
	return l.seq
}

// Cancel removes a task. It reports whether the task was still scheduled.
func (l *Loop) Cancel(id TaskID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tasks[id]; !ok {
		return false
	}
	delete(l.tasks, id)
	return true
}

func (l *Loop) Scheduled(id TaskID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.tasks[id]
	return ok
}

func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Advance runs every task due at or before to, earliest first, ties in
// scheduling order. Tasks scheduled by a running task also run if they fall
// due before to. A recurring task that missed several periods runs at most
// twice: at its first due time and at the latest missed slot. It returns the
// number of runs.
func (l *Loop) Advance(to time.Time) int {
	runs := 0
	for {
		l.mu.Lock()
		next := l.nextDueLocked(to)
		if next == nil {
			if to.After(l.now) {
				l.now = to
			}
			l.mu.Unlock()
			return runs
		}
		if next.due.After(l.now) {
			l.now = next.due
		}
		if next.every > 0 {
			k := max(1, to.Sub(next.due)/next.every)
			next.due = next.due.Add(k * next.every)
		} else {
			delete(l.tasks, next.id)
		}
		fn := next.fn
		l.mu.Unlock()

		fn()
		runs++
	}
}

func (l *Loop) nextDueLocked(to time.Time) *task {
	var best *task
	for _, t := range l.tasks {
		if t.due.After(to) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.id < best.id) {
			best = t
		}
	}
	return best
}
