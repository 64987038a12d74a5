package session

import (
	"fmt"
	"time"

	"clozedojo/internal/focus"
)

// Timer is the session countdown. With no limit it only counts elapsed time;
// with a limit it counts down and then into overtime. It ticks on the shared
// loop so it never competes with engine work.
type Timer struct {
	loop    *focus.Loop
	limit   time.Duration
	started time.Time
	stopped time.Time
	running bool
	expired bool
	tick    focus.TaskID

	// OnExpire runs once when a countdown reaches zero.
	OnExpire func()
}

func NewTimer(loop *focus.Loop, limit time.Duration) *Timer {
	if limit < 0 {
		limit = 0
	}
	return &Timer{loop: loop, limit: limit}
}

func (t *Timer) Start() {
	t.loop.Cancel(t.tick)
	t.started = t.loop.Now()
	t.stopped = time.Time{}
	t.running = true
	t.expired = false
	t.tick = t.loop.Every(time.Second, t.onTick)
}

func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.stopped = t.loop.Now()
	t.running = false
	t.loop.Cancel(t.tick)
	t.tick = 0
}

func (t *Timer) Running() bool {
	return t.running
}

func (t *Timer) Limit() time.Duration {
	return t.limit
}

func (t *Timer) Elapsed() time.Duration {
	if t.started.IsZero() {
		return 0
	}
	end := t.stopped
	if t.running || end.IsZero() {
		end = t.loop.Now()
	}
	return end.Sub(t.started)
}

// Remaining is negative once the countdown is in overtime. Zero without a limit.
func (t *Timer) Remaining() time.Duration {
	if t.limit == 0 {
		return 0
	}
	return t.limit - t.Elapsed()
}

func (t *Timer) Overtime() bool {
	return t.limit > 0 && t.Elapsed() > t.limit
}

// Label renders mm:ss, with a leading + in overtime.
func (t *Timer) Label() string {
	if t.limit == 0 {
		return clock(t.Elapsed())
	}
	rem := t.Remaining()
	if rem < 0 {
		return "+" + clock(-rem)
	}
	return clock(rem)
}

func (t *Timer) onTick() {
	if t.expired || t.limit == 0 {
		return
	}
	if t.Elapsed() >= t.limit {
		t.expired = true
		if t.OnExpire != nil {
			t.OnExpire()
		}
	}
}

func clock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
