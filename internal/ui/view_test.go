package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"clozedojo/internal/engine"
	"clozedojo/internal/focus"
	"clozedojo/internal/session"

	tea "charm.land/bubbletea/v2"
)

type mockController struct {
	mu          sync.Mutex
	started     []string
	submits     []session.Result
	retries     int
	backs       int
	nexts       int
	quits       int
	corrections []engine.Cell
	copied      []string
	actions     int
}

func (m *mockController) OnStartPassage(packID, passageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, packID+"/"+passageID)
}

func (m *mockController) OnBackToPicker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backs++
}

func (m *mockController) OnSubmit(res session.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits = append(m.submits, res)
}

func (m *mockController) OnRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

func (m *mockController) OnNextPassage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nexts++
}

func (m *mockController) OnAction(engine.ActionKind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions++
}

func (m *mockController) OnFocusCorrected(c engine.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrections = append(m.corrections, c)
}

func (m *mockController) OnTimeUp() {}

func (m *mockController) OnCopyResults(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copied = append(m.copied, text)
}

func (m *mockController) OnQuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quits++
}

// waitFor polls cond while dispatched controller calls finish.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func press(v *Root, code rune, mod tea.KeyMod, text string) tea.Cmd {
	_, cmd := v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
	return cmd
}

func typeLetter(v *Root, ch rune) tea.Cmd {
	return press(v, ch, 0, string(ch))
}

func advance(v *Root, d time.Duration) {
	v.loop.Advance(v.loop.Now().Add(d))
}

func newExercise(t *testing.T) (*Root, *mockController) {
	t.Helper()
	v := New(Options{MotionLevel: "off"})
	ctrl := &mockController{}
	v.SetController(ctrl)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	v.StartExercise(ExerciseSpec{
		Passage:   samplePassage(),
		ModeLabel: "Practice",
		Layout:    engine.LayoutCompact,
		Focus:     focus.DefaultConfig(),
	})
	return v, ctrl
}

func focusedExercise(t *testing.T) (*Root, *mockController) {
	t.Helper()
	v, ctrl := newExercise(t)
	advance(v, 60*time.Millisecond)
	if !v.hasFocus || v.focused != (engine.Cell{BlankID: 1}) {
		t.Fatalf("expected initial focus on the first cell, got %v (focused=%v)", v.focused, v.hasFocus)
	}
	return v, ctrl
}

func TestTypingMovesFocusAtSettle(t *testing.T) {
	v, _ := focusedExercise(t)

	if cmd := typeLetter(v, 'g'); cmd == nil {
		t.Fatalf("expected a settle command after typing")
	}
	if got := v.sess.Engine().Answers().String(1); got != "g" {
		t.Fatalf("answer = %q, want g", got)
	}
	if v.focused != (engine.Cell{BlankID: 1}) {
		t.Fatalf("focus should not move before settle, got %v", v.focused)
	}

	_, _ = v.Update(settleMsg{seq: v.settleSeq})
	if v.focused != (engine.Cell{BlankID: 1, Index: 1}) {
		t.Fatalf("focus after settle = %v, want 1:1", v.focused)
	}
}

func TestNextKeySettlesPendingFocusFirst(t *testing.T) {
	v, _ := focusedExercise(t)

	typeLetter(v, 'g')
	typeLetter(v, 'h')
	typeLetter(v, 't')
	if got := v.sess.Engine().Answers().String(1); got != "ght" {
		t.Fatalf("answer = %q, want ght", got)
	}
	_, _ = v.Update(settleMsg{seq: v.settleSeq})
	if v.focused != (engine.Cell{BlankID: 2}) {
		t.Fatalf("focus = %v, want head of blank 2", v.focused)
	}
}

func TestStaleSettleIsIgnored(t *testing.T) {
	v, _ := focusedExercise(t)

	typeLetter(v, 'g')
	stale := v.settleSeq
	typeLetter(v, 'h')
	_, _ = v.Update(settleMsg{seq: stale})
	if !v.settlePending {
		t.Fatalf("stale settle must not consume the latest intent")
	}
}

func TestKeysWithoutFocusAreDropped(t *testing.T) {
	v, _ := newExercise(t)

	typeLetter(v, 'x')
	if got := v.sess.Engine().Answers().String(1); got != "" {
		t.Fatalf("answer = %q, want empty", got)
	}
}

func TestNonLetterKeysNeverReachTheEngine(t *testing.T) {
	v, ctrl := focusedExercise(t)

	press(v, '7', 0, "7")
	press(v, 'v', tea.ModCtrl, "")
	if got := v.sess.Engine().Answers().String(1); got != "" {
		t.Fatalf("answer = %q, want empty", got)
	}
	time.Sleep(20 * time.Millisecond)
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.actions != 0 {
		t.Fatalf("expected no engine actions, got %d", ctrl.actions)
	}
}

func TestPasteOfOneLetterTypes(t *testing.T) {
	v, _ := focusedExercise(t)

	_, _ = v.Update(tea.PasteMsg{Content: "g"})
	_, _ = v.Update(tea.PasteMsg{Content: "ht"})
	if got := v.sess.Engine().Answers().String(1); got != "g" {
		t.Fatalf("answer = %q, want g", got)
	}
}

func TestResizeDropsFocusAndWatchdogRestores(t *testing.T) {
	v, ctrl := focusedExercise(t)

	// Let the grace period after the initial lock run out.
	advance(v, 140*time.Millisecond)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 90, Height: 28})
	if v.hasFocus {
		t.Fatalf("resize should drop focus")
	}

	advance(v, 120*time.Millisecond)
	if !v.hasFocus || v.focused != (engine.Cell{BlankID: 1}) {
		t.Fatalf("watchdog should restore focus to 1:0, got %v (focused=%v)", v.focused, v.hasFocus)
	}
	waitFor(t, "focus correction", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return len(ctrl.corrections) == 1
	})
}

func TestClickOnCellFocusesIt(t *testing.T) {
	v, _ := focusedExercise(t)
	_ = v.View()

	target := engine.Cell{BlankID: 2, Index: 1}
	var at point
	found := false
	for p, c := range v.cellHits {
		if c == target {
			at, found = p, true
		}
	}
	if !found {
		t.Fatalf("no hit area for %v", target)
	}

	_, _ = v.Update(tea.MouseClickMsg{X: at.x, Y: at.y, Button: tea.MouseLeft})
	if !v.hasFocus || v.focused != target {
		t.Fatalf("click should focus %v, got %v", target, v.focused)
	}

	_, _ = v.Update(tea.MouseClickMsg{X: 0, Y: 0, Button: tea.MouseLeft})
	if v.hasFocus {
		t.Fatalf("click outside the cells should drop focus")
	}
}

func TestViewPlacesCursorOnFocusedCell(t *testing.T) {
	v, _ := focusedExercise(t)

	view := v.View()
	if view.Cursor == nil {
		t.Fatalf("expected a cursor on the focused cell")
	}
	if c := v.cellHits[point{v.cursorX, v.cursorY}]; c != v.focused {
		t.Fatalf("cursor at %d,%d is on %v, want %v", v.cursorX, v.cursorY, c, v.focused)
	}
}

func TestEnterSubmitsAndFreezesInput(t *testing.T) {
	v, ctrl := focusedExercise(t)
	for _, ch := range "ght" {
		typeLetter(v, ch)
	}

	press(v, tea.KeyEnter, 0, "")
	if !v.resultOpen || !v.sess.ResultsShown() {
		t.Fatalf("enter should show results")
	}
	if v.sess.Scheduler().Active() {
		t.Fatalf("watchdog should stop with results shown")
	}

	typeLetter(v, 'x')
	v.Focus(engine.Cell{BlankID: 1})
	if v.hasFocus {
		t.Fatalf("focus requests are ignored while results are shown")
	}
	advance(v, time.Second)
	if v.hasFocus {
		t.Fatalf("no task may refocus a cell after submission")
	}

	waitFor(t, "submit", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return len(ctrl.submits) == 1
	})
	ctrl.mu.Lock()
	res := ctrl.submits[0]
	ctrl.mu.Unlock()
	if res.Score != 1 || res.MaxScore != 2 || res.Answers[1] != "ght" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(v.resultText(), "Score: 1 / 2") {
		t.Fatalf("result text missing score:\n%s", v.resultText())
	}
}

func TestResultKeys(t *testing.T) {
	v, ctrl := focusedExercise(t)
	typeLetter(v, 'g')
	press(v, tea.KeyEnter, 0, "")

	if cmd := press(v, 'y', 0, "y"); cmd == nil {
		t.Fatalf("copy should return a clipboard command")
	}
	if v.statusFlash != "Copied results" {
		t.Fatalf("unexpected flash %q", v.statusFlash)
	}

	press(v, 'r', 0, "r")
	if v.resultOpen || v.sess.ResultsShown() {
		t.Fatalf("retry should close results")
	}
	if got := v.sess.Engine().Answers().String(1); got != "" {
		t.Fatalf("retry should clear answers, got %q", got)
	}
	advance(v, 60*time.Millisecond)
	if !v.hasFocus || v.focused != (engine.Cell{BlankID: 1}) {
		t.Fatalf("retry should focus the first cell again")
	}

	waitFor(t, "copy and retry", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return len(ctrl.copied) == 1 && ctrl.retries == 1
	})
	if !strings.Contains(ctrl.copied[0], "expected light") {
		t.Fatalf("copied text should name the expected word:\n%s", ctrl.copied[0])
	}
}

func TestResultEnterRequestsNextPassage(t *testing.T) {
	v, ctrl := focusedExercise(t)
	press(v, tea.KeyEnter, 0, "")
	press(v, tea.KeyEnter, 0, "")

	waitFor(t, "next passage", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return ctrl.nexts == 1
	})
}

func TestEscReturnsToPicker(t *testing.T) {
	v, ctrl := focusedExercise(t)
	press(v, tea.KeyEscape, 0, "")

	if v.screen != ScreenPicker || v.sess != nil {
		t.Fatalf("esc should close the exercise")
	}
	if n := v.loop.Len(); n != 0 {
		t.Fatalf("closing the exercise should cancel its tasks, %d left", n)
	}
	waitFor(t, "back to picker", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return ctrl.backs == 1
	})
}

func TestCtrlQQuitsFromAnyScreen(t *testing.T) {
	v, ctrl := focusedExercise(t)
	press(v, 'q', tea.ModCtrl, "")

	waitFor(t, "quit", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return ctrl.quits == 1
	})
}

func TestPickerEnterStartsSelectedPassage(t *testing.T) {
	v := New(Options{})
	ctrl := &mockController{}
	v.SetController(ctrl)
	v.SetCatalog([]PackSummary{{
		PackID: "core-reading",
		Name:   "Core Reading",
		Passages: []PassageSummary{
			{PassageID: "p01-first", Title: "First", Blanks: 2},
			{PassageID: "p02-second", Title: "Second", Blanks: 3, Attempts: 1, BestScore: 3, MaxScore: 3},
		},
	}})

	press(v, tea.KeyEnter, 0, "")
	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyEnter, 0, "")

	if !v.loading {
		t.Fatalf("starting a passage should show the loading spinner")
	}
	waitFor(t, "start passage", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return len(ctrl.started) == 1 && ctrl.started[0] == "core-reading/p02-second"
	})
	if !strings.Contains(v.renderPicker(), "Second [3/3]") {
		t.Fatalf("picker should show progress for played passages")
	}
}

func TestReadyReportsExerciseState(t *testing.T) {
	v, _ := focusedExercise(t)
	typeLetter(v, 'g')

	s := v.Ready()
	if s.Screen != "exercise" || s.PassageID != "p01-sample" || s.Focus != "1:0" {
		t.Fatalf("unexpected ready state %+v", s)
	}
	if s.FocusState != "pending" || s.Filled != 1 || s.Cells != 6 {
		t.Fatalf("unexpected ready counters %+v", s)
	}
}
