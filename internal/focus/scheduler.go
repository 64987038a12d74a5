package focus

import (
	"time"

	"clozedojo/internal/engine"
)

type State int

const (
	StateIdle State = iota
	StatePending
	StateLocked
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLocked:
		return "locked"
	default:
		return "idle"
	}
}

// Platform is the view that owns real input focus.
type Platform interface {
	Focus(c engine.Cell)
	// FocusedCell reports the cell holding focus, or false when focus sits on
	// anything that is not one of the exercise's cells.
	FocusedCell() (engine.Cell, bool)
}

// Cells answers questions about the exercise's cells. *engine.Engine
// satisfies it.
type Cells interface {
	FirstCell() (engine.Cell, bool)
	Valid(c engine.Cell) bool
}

type Config struct {
	WatchdogInterval time.Duration
	Grace            time.Duration
	InitialDelay     time.Duration
	LayoutDelay      time.Duration
}

func DefaultConfig() Config {
	return Config{
		WatchdogInterval: 150 * time.Millisecond,
		Grace:            120 * time.Millisecond,
		InitialDelay:     50 * time.Millisecond,
		LayoutDelay:      16 * time.Millisecond,
	}
}

// Scheduler applies focus intents at stabilization points and, while active,
// puts focus back on the last known good cell when it drifts away.
type Scheduler struct {
	cfg      Config
	loop     *Loop
	intent   *engine.Intent
	cells    Cells
	platform Platform

	state    State
	pending  engine.Cell
	lastGood engine.Cell
	hasGood  bool
	active   bool

	watchdog TaskID
	initial  TaskID
	reissue  TaskID
	grace    TaskID

	// OnDrift is called with the cell focus is restored to.
	OnDrift func(engine.Cell)
}

func NewScheduler(loop *Loop, intent *engine.Intent, cells Cells, platform Platform, cfg Config) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		loop:     loop,
		intent:   intent,
		cells:    cells,
		platform: platform,
	}
}

func (s *Scheduler) State() State {
	return s.state
}

func (s *Scheduler) Active() bool {
	return s.active
}

// LastGood is the cell focus was last put on.
func (s *Scheduler) LastGood() (engine.Cell, bool) {
	return s.lastGood, s.hasGood
}

// Pending is the cell waiting for the next stabilization point.
func (s *Scheduler) Pending() (engine.Cell, bool) {
	return s.pending, s.state == StatePending
}

// Start schedules the initial focus on the first cell and starts the watchdog.
func (s *Scheduler) Start() {
	s.active = true
	s.loop.Cancel(s.initial)
	s.initial = s.loop.After(s.cfg.InitialDelay, func() {
		if !s.active {
			return
		}
		if first, ok := s.cells.FirstCell(); ok {
			s.lock(first)
		}
	})
	s.loop.Cancel(s.watchdog)
	s.watchdog = s.loop.Every(s.cfg.WatchdogInterval, s.check)
}

// Notify moves the scheduler to pending when the engine left an intent.
func (s *Scheduler) Notify() {
	if c, ok := s.intent.Peek(); ok {
		s.state = StatePending
		s.pending = c
	}
}

// Stabilized is called once the view reflecting the latest answers exists.
// It consumes the intent and focuses its cell.
func (s *Scheduler) Stabilized() {
	c, ok := s.intent.Take()
	if !ok {
		if s.state == StatePending {
			s.state = StateIdle
		}
		return
	}
	s.lock(c)
}

// Stop tears down the watchdog. One-shot tasks already scheduled may still
// run; the platform ignores focus on disabled cells.
func (s *Scheduler) Stop() {
	s.active = false
	s.loop.Cancel(s.watchdog)
	s.watchdog = 0
	if s.state == StatePending {
		s.state = StateIdle
	}
}

// Close cancels every task the scheduler owns.
func (s *Scheduler) Close() {
	s.Stop()
	for _, id := range []TaskID{s.initial, s.reissue, s.grace} {
		s.loop.Cancel(id)
	}
	s.state = StateIdle
}

// Reset forgets the last known good cell, for a retry of the same passage.
func (s *Scheduler) Reset() {
	s.hasGood = false
	s.lastGood = engine.Cell{}
	s.intent.Clear()
}

func (s *Scheduler) lock(c engine.Cell) {
	s.state = StateLocked
	s.pending = engine.Cell{}
	s.platform.Focus(c)
	s.lastGood = c
	s.hasGood = true

	s.loop.Cancel(s.reissue)
	s.reissue = s.loop.After(s.cfg.LayoutDelay, func() {
		if s.active && s.state == StateLocked && s.lastGood == c {
			s.platform.Focus(c)
		}
	})
	s.loop.Cancel(s.grace)
	s.grace = s.loop.After(s.cfg.Grace, func() {
		if s.state == StateLocked {
			s.state = StateIdle
		}
	})
}

func (s *Scheduler) check() {
	if !s.active || s.state != StateIdle {
		return
	}
	if c, ok := s.platform.FocusedCell(); ok && s.cells.Valid(c) {
		s.lastGood = c
		s.hasGood = true
		return
	}
	target, ok := s.lastGood, s.hasGood && s.cells.Valid(s.lastGood)
	if !ok {
		target, ok = s.cells.FirstCell()
	}
	if !ok {
		return
	}
	s.lock(target)
	if s.OnDrift != nil {
		s.OnDrift(target)
	}
}
