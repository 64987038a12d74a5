package session

import (
	"time"

	"clozedojo/internal/engine"
	"clozedojo/internal/focus"
	"clozedojo/internal/passage"
)

type Options struct {
	Layout    engine.Layout
	Focus     focus.Config
	TimeLimit time.Duration
	OnDrift   func(engine.Cell)
	OnExpire  func()
}

// Result is what the result sink receives after submission.
type Result struct {
	PackID    string
	PassageID string
	Score     int
	MaxScore  int
	Answers   map[int]string
	TimeSpent time.Duration
	Overtime  bool
	Blanks    []passage.BlankResult
}

func (r Result) Passed() bool {
	return r.MaxScore > 0 && r.Score == r.MaxScore
}

// Session is one active exercise: the engine and the focus scheduler built
// together for one passage and discarded with it. All methods run on the UI
// loop.
type Session struct {
	passage passage.Passage
	idx     *passage.Index
	answers *engine.Answers
	intent  *engine.Intent
	engine  *engine.Engine
	sched   *focus.Scheduler
	timer   *Timer
	loop    *focus.Loop

	resultsShown bool
	result       Result
}

func New(p passage.Passage, loop *focus.Loop, platform focus.Platform, opts Options) *Session {
	if opts.Focus == (focus.Config{}) {
		opts.Focus = focus.DefaultConfig()
	}
	idx := passage.BuildIndex(p)
	answers := engine.NewAnswers(opts.Layout, idx)
	intent := &engine.Intent{}
	eng := engine.New(idx, answers, intent)
	sched := focus.NewScheduler(loop, intent, eng, platform, opts.Focus)
	sched.OnDrift = opts.OnDrift
	timer := NewTimer(loop, opts.TimeLimit)
	timer.OnExpire = opts.OnExpire
	return &Session{
		passage: p,
		idx:     idx,
		answers: answers,
		intent:  intent,
		engine:  eng,
		sched:   sched,
		timer:   timer,
		loop:    loop,
	}
}

func (s *Session) Passage() passage.Passage {
	return s.passage
}

func (s *Session) Engine() *engine.Engine {
	return s.engine
}

func (s *Session) Scheduler() *focus.Scheduler {
	return s.sched
}

func (s *Session) Timer() *Timer {
	return s.timer
}

func (s *Session) ResultsShown() bool {
	return s.resultsShown
}

// Result is the last submitted result; valid while ResultsShown.
func (s *Session) Result() Result {
	return s.result
}

// Start begins the timer and schedules the initial focus.
func (s *Session) Start() {
	s.timer.Start()
	s.sched.Start()
}

// Apply runs one action. The answers and intent are updated before it returns;
// focus follows at the next Stabilized call.
func (s *Session) Apply(a engine.Action) engine.Outcome {
	out := s.engine.Apply(a)
	if out.FocusSet {
		s.sched.Notify()
	}
	return out
}

func (s *Session) Stabilized() {
	if s.resultsShown {
		return
	}
	s.sched.Stabilized()
}

// Filled reports entered characters against total cells.
func (s *Session) Filled() (filled, total int) {
	for _, id := range s.idx.IDs() {
		filled += s.answers.Filled(id)
		total += s.idx.SuffixLen(id)
	}
	return filled, total
}

// ShowResults disables input and stops the watchdog before scoring.
func (s *Session) ShowResults() Result {
	if s.resultsShown {
		return s.result
	}
	s.engine.Disable()
	s.sched.Stop()
	s.timer.Stop()
	s.resultsShown = true

	answers := s.answers.Snapshot()
	s.result = Result{
		PackID:    s.passage.PackID,
		PassageID: s.passage.ID,
		Score:     passage.Score(s.passage, answers),
		MaxScore:  passage.MaxScore(s.passage),
		Answers:   answers,
		TimeSpent: s.timer.Elapsed(),
		Overtime:  s.timer.Overtime(),
		Blanks:    passage.Evaluate(s.passage, answers),
	}
	return s.result
}

// Retry clears the answers and starts the same passage over.
func (s *Session) Retry() {
	s.sched.Close()
	s.answers.Reset()
	s.sched.Reset()
	s.engine.Enable()
	s.resultsShown = false
	s.result = Result{}
	s.Start()
}

// Close stops every task the session owns.
func (s *Session) Close() {
	s.engine.Disable()
	s.sched.Close()
	s.timer.Stop()
}
