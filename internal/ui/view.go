package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"clozedojo/internal/engine"
	"clozedojo/internal/focus"
	"clozedojo/internal/input"
	"clozedojo/internal/session"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
)

type applyMsg struct {
	fn func(*Root)
}

// frameMsg drives the focus loop and the results spring.
type frameMsg time.Time

// settleMsg marks the point where the view for an action has been drawn.
type settleMsg struct {
	seq int
}

type exerciseKeyMap struct {
	Submit key.Binding
	Retry  key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
	Move   key.Binding
	Tab    key.Binding
}

func (k exerciseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Retry, k.Back, k.Help, k.Quit}
}

func (k exerciseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Move, k.Tab}, {k.Submit, k.Retry, k.Back}, {k.Help, k.Quit}}
}

type point struct{ x, y int }

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	noMouse      bool
	styleVariant string
	motionLevel  string
	ctrl         Controller

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	catalog      []PackSummary
	packIndex    int
	passageIndex int
	pickerFocus  int
	selPack      string
	selPassage   string

	loading      bool
	loadingLabel string
	setupMsg     string
	setupDetails string
	statusFlash  string

	loop     *focus.Loop
	sess     *session.Session
	spec     ExerciseSpec
	focused  engine.Cell
	hasFocus bool

	settleSeq     int
	settlePending bool

	instructions []string
	scroll       int
	cellHits     map[point]engine.Cell
	cursorX      int
	cursorY      int
	cursorShow   bool

	resultOpen bool
	resultPos  float64
	resultVel  float64
	spring     harmonica.Spring

	help       help.Model
	keymap     exerciseKeyMap
	pickerKeys []key.Binding
	filled     progress.Model
	spin       spinner.Model
	markdown   *glamour.TermRenderer
	mdCache    map[string]string
	logger     *clog.Logger

	readyMu sync.Mutex
	ready   ReadyState

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	NoMouse      bool
	StyleVariant string
	MotionLevel  string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "clozedojo-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	mdStyle := "dark"
	if opts.ASCIIOnly {
		mdStyle = "ascii"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(mdStyle),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.85)
	if motionLevel == "reduced" {
		spring = harmonica.NewSpring(harmonica.FPS(60), 12.0, 1.0)
	}
	filled := progress.New(
		progress.WithWidth(20),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F2D16B")),
		progress.WithScaled(true),
	)
	if motionLevel == "off" {
		filled.SetSpringOptions(1000.0, 1.0)
	}
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		noMouse:      opts.NoMouse,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		screen:       ScreenPicker,
		layout:       LayoutWide,
		cols:         100,
		rows:         30,
		loop:         focus.NewLoop(time.Now()),
		spring:       spring,
		help:         h,
		filled:       filled,
		spin:         spin,
		markdown:     renderer,
		mdCache:      map[string]string{},
		logger:       logger,
	}
	r.keymap = exerciseKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Submit")),
		Retry:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Retry")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Passages")),
		Help:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("Ctrl+Q", "Quit")),
		Move:   key.NewBinding(key.WithKeys("left", "right", "up", "down", "home", "end"), key.WithHelp("←→↑↓ Home End", "Move")),
		Tab:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("Tab/Shift+Tab", "Next/prev blank")),
	}
	r.pickerKeys = []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "Select")),
		key.NewBinding(key.WithKeys("left", "right", "tab"), key.WithHelp("←/→", "Switch list")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Start")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),
	}
	r.syncReady()
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(frameTickCmd(), spinnerTickCmd(r.spin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer r.syncReady()
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		// A relayout takes focus off the cells; the watchdog puts it back.
		r.hasFocus = false
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, nil
	case frameMsg:
		r.loop.Advance(time.Time(msg))
		r.stepSpring()
		return r, frameTickCmd()
	case settleMsg:
		if msg.seq == r.settleSeq {
			r.settle()
		}
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case tea.PasteMsg:
		return r.handlePaste(msg)
	case tea.ClipboardMsg:
		return r.handlePaste(tea.PasteMsg{Content: msg.Content})
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth("UI recovered from a rendering panic. Check logs.", max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 100
	}
	if r.rows < 1 {
		r.rows = 30
	}
	r.cursorShow = false

	var base string
	switch r.screen {
	case ScreenExercise:
		base = r.composeResults(r.renderExercise())
	default:
		base = r.renderPicker()
	}

	v := tea.NewView(base)
	v.AltScreen = true
	if !r.noMouse {
		v.MouseMode = tea.MouseModeCellMotion
	}
	if r.cursorShow && !r.resultOpen {
		v.Cursor = tea.NewCursor(r.cursorX, r.cursorY)
	}
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		if screen == ScreenPicker {
			m.closeExercise()
		}
		m.screen = screen
	})
}

func (r *Root) SetCatalog(packs []PackSummary) {
	r.apply(func(m *Root) {
		m.catalog = append([]PackSummary(nil), packs...)
		m.syncCatalogSelection()
	})
}

func (r *Root) SetSelection(packID, passageID string) {
	r.apply(func(m *Root) {
		m.selPack = packID
		m.selPassage = passageID
		m.syncCatalogSelection()
	})
}

func (r *Root) SetLoading(loading bool, label string) {
	r.apply(func(m *Root) {
		m.loading = loading
		m.loadingLabel = label
	})
}

func (r *Root) SetSetupError(msg, details string) {
	r.apply(func(m *Root) {
		m.setupMsg = msg
		m.setupDetails = details
		m.loading = false
		m.closeExercise()
		m.screen = ScreenPicker
	})
}

// StartExercise replaces any running exercise with a new session for spec.
func (r *Root) StartExercise(spec ExerciseSpec) {
	r.apply(func(m *Root) {
		m.startExercise(spec)
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

// Ready is safe to call from any goroutine.
func (r *Root) Ready() ReadyState {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()
	return r.ready
}

// Focus puts input focus on a cell. It is a no-op for cells that do not
// exist or while results are shown.
func (r *Root) Focus(c engine.Cell) {
	if r.sess == nil || r.sess.ResultsShown() || !r.sess.Engine().Valid(c) {
		return
	}
	r.focused = c
	r.hasFocus = true
}

func (r *Root) FocusedCell() (engine.Cell, bool) {
	return r.focused, r.hasFocus
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		r.syncReady()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) startExercise(spec ExerciseSpec) {
	r.closeExercise()
	r.spec = spec
	r.setupMsg = ""
	r.setupDetails = ""
	r.loading = false
	r.statusFlash = ""
	r.instructions = r.renderMarkdownLines(spec.Passage.Instructions)
	r.sess = session.New(spec.Passage, r.loop, r, session.Options{
		Layout:    spec.Layout,
		Focus:     spec.Focus,
		TimeLimit: spec.TimeLimit,
		OnDrift: func(c engine.Cell) {
			r.dispatchController(func(ctrl Controller) { ctrl.OnFocusCorrected(c) })
		},
		OnExpire: func() {
			r.statusFlash = "Time is up, the clock now counts overtime"
			r.dispatchController(func(ctrl Controller) { ctrl.OnTimeUp() })
		},
	})
	r.sess.Start()
	r.screen = ScreenExercise
}

func (r *Root) closeExercise() {
	if r.sess != nil {
		r.sess.Close()
	}
	r.sess = nil
	r.hasFocus = false
	r.focused = engine.Cell{}
	r.settlePending = false
	r.resultOpen = false
	r.resultPos = 0
	r.resultVel = 0
	r.scroll = 0
	r.cellHits = nil
}

// applyAction runs one action on the UI loop and schedules the settle that
// hands the new intent to the focus scheduler.
func (r *Root) applyAction(a engine.Action) tea.Cmd {
	if r.sess == nil {
		return nil
	}
	out := r.sess.Apply(a)
	kind, mutated := a.Kind, out.Mutated
	r.dispatchController(func(c Controller) { c.OnAction(kind, mutated) })
	if !out.FocusSet {
		return nil
	}
	r.settleSeq++
	r.settlePending = true
	return settleCmd(r.settleSeq)
}

func (r *Root) settle() {
	if !r.settlePending || r.sess == nil {
		return
	}
	r.settlePending = false
	r.sess.Stabilized()
}

func (r *Root) submit() tea.Cmd {
	if r.sess == nil || r.sess.ResultsShown() {
		return nil
	}
	res := r.sess.ShowResults()
	r.settlePending = false
	r.hasFocus = false
	r.resultOpen = true
	if r.motionLevel == "off" {
		r.resultPos = 1
	}
	r.dispatchController(func(c Controller) { c.OnSubmit(res) })
	return nil
}

func (r *Root) retry() {
	if r.sess == nil {
		return
	}
	r.sess.Retry()
	r.resultOpen = false
	r.resultPos = 0
	r.resultVel = 0
	r.hasFocus = false
	r.settlePending = false
	r.statusFlash = ""
	r.dispatchController(func(c Controller) { c.OnRetry() })
}

func (r *Root) leaveExercise() {
	r.closeExercise()
	r.screen = ScreenPicker
	r.dispatchController(func(c Controller) { c.OnBackToPicker() })
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if key.Matches(msg, r.keymap.Help) {
		r.help.ShowAll = !r.help.ShowAll
		return r, nil
	}

	if r.screen == ScreenExercise {
		if r.resultOpen {
			return r.handleResultKey(msg)
		}
		return r.handleExerciseKey(msg)
	}
	return r.handlePickerKey(msg)
}

func (r *Root) handleExerciseKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// The previous action's view is on screen by the time another key arrives.
	r.settle()

	switch {
	case key.Matches(msg, r.keymap.Submit):
		return r, r.submit()
	case key.Matches(msg, r.keymap.Retry):
		r.retry()
		return r, nil
	case key.Matches(msg, r.keymap.Back):
		r.leaveExercise()
		return r, nil
	}

	if !r.hasFocus {
		return r, nil
	}
	a, ok := input.ActionFromKey(msg, r.focused)
	if !ok {
		return r, nil
	}
	return r, r.applyAction(a)
}

func (r *Root) handleResultKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEnter:
		r.dispatchController(func(c Controller) { c.OnNextPassage() })
		return r, nil
	case msg.Code == tea.KeyEscape:
		r.leaveExercise()
		return r, nil
	case key.Matches(msg, r.keymap.Retry), msg.Mod == 0 && (msg.Code == 'r' || msg.Code == 'R'):
		r.retry()
		return r, nil
	case msg.Mod == 0 && (msg.Code == 'y' || msg.Code == 'Y'):
		text := r.resultText()
		if strings.TrimSpace(text) == "" {
			return r, nil
		}
		r.statusFlash = "Copied results"
		r.dispatchController(func(c Controller) { c.OnCopyResults(text) })
		return r, tea.SetClipboard(text)
	}
	return r, nil
}

func (r *Root) handlePickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.Code == tea.KeyEscape {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if msg.Code == tea.KeyTab && msg.Mod&tea.ModShift != 0 {
		r.pickerFocus = 0
		return r, nil
	}
	switch msg.Code {
	case tea.KeyLeft:
		r.pickerFocus = 0
	case tea.KeyRight, tea.KeyTab:
		r.pickerFocus = 1
	case tea.KeyUp:
		r.movePicker(-1)
	case tea.KeyDown:
		r.movePicker(1)
	case tea.KeyEnter:
		if r.pickerFocus == 0 {
			r.pickerFocus = 1
			return r, nil
		}
		r.startSelectedPassage()
	}
	return r, nil
}

func (r *Root) movePicker(delta int) {
	if r.pickerFocus == 0 {
		r.packIndex = wrapIndex(r.packIndex+delta, len(r.catalog))
		r.passageIndex = 0
	} else {
		r.passageIndex = wrapIndex(r.passageIndex+delta, len(r.selectedPassages()))
	}
	r.syncSelectionFromIndices()
}

func (r *Root) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("paste:%d", len(msg.Content)))

	if r.screen != ScreenExercise || r.resultOpen || !r.hasFocus {
		return r, nil
	}
	r.settle()
	a, ok := input.ActionFromPaste(msg.Content, r.focused)
	if !ok {
		return r, nil
	}
	return r, r.applyAction(a)
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if r.noMouse || mouse.Button != tea.MouseLeft {
		return r, nil
	}
	if r.screen == ScreenPicker {
		return r.handlePickerMouseClick(mouse.X, mouse.Y)
	}
	if r.resultOpen || r.sess == nil {
		return r, nil
	}
	if c, ok := r.cellHits[point{mouse.X, mouse.Y}]; ok {
		r.Focus(c)
		return r, nil
	}
	// Clicking outside the cells drops focus like any other platform focus
	// change; the watchdog restores it.
	r.hasFocus = false
	return r, nil
}

func (r *Root) handlePickerMouseClick(x, y int) (tea.Model, tea.Cmd) {
	if y < 2 {
		return r, nil
	}
	leftW := r.pickerLeftWidth()
	idx := y - 2
	if x >= 1 && x < leftW-1 {
		if idx >= len(r.catalog) {
			return r, nil
		}
		r.pickerFocus = 0
		r.packIndex = idx
		r.passageIndex = 0
		r.syncSelectionFromIndices()
		return r, nil
	}
	if x >= leftW+1 && x < leftW+r.pickerMiddleWidth()-1 {
		if idx >= len(r.selectedPassages()) {
			return r, nil
		}
		r.pickerFocus = 1
		r.passageIndex = idx
		r.syncSelectionFromIndices()
		r.startSelectedPassage()
	}
	return r, nil
}

func (r *Root) startSelectedPassage() {
	pack := r.selectedPack()
	if pack == nil || len(pack.Passages) == 0 {
		return
	}
	ps := pack.Passages[wrapIndex(r.passageIndex, len(pack.Passages))]
	r.selPassage = ps.PassageID
	r.loading = true
	r.loadingLabel = "Loading " + ps.Title
	packID, passageID := pack.PackID, ps.PassageID
	r.dispatchController(func(c Controller) { c.OnStartPassage(packID, passageID) })
}

func (r *Root) syncCatalogSelection() {
	if len(r.catalog) == 0 {
		r.packIndex = 0
		r.passageIndex = 0
		return
	}
	r.packIndex = 0
	for i, p := range r.catalog {
		if p.PackID == r.selPack {
			r.packIndex = i
			break
		}
	}
	r.passageIndex = 0
	for i, ps := range r.catalog[r.packIndex].Passages {
		if ps.PassageID == r.selPassage {
			r.passageIndex = i
			break
		}
	}
	r.syncSelectionFromIndices()
}

func (r *Root) syncSelectionFromIndices() {
	if len(r.catalog) == 0 {
		return
	}
	r.packIndex = wrapIndex(r.packIndex, len(r.catalog))
	pack := r.catalog[r.packIndex]
	r.selPack = pack.PackID
	if len(pack.Passages) == 0 {
		r.passageIndex = 0
		r.selPassage = ""
		return
	}
	r.passageIndex = wrapIndex(r.passageIndex, len(pack.Passages))
	r.selPassage = pack.Passages[r.passageIndex].PassageID
}

func (r *Root) selectedPack() *PackSummary {
	if len(r.catalog) == 0 {
		return nil
	}
	if r.packIndex < 0 || r.packIndex >= len(r.catalog) {
		r.packIndex = 0
	}
	return &r.catalog[r.packIndex]
}

func (r *Root) selectedPassages() []PassageSummary {
	pack := r.selectedPack()
	if pack == nil {
		return nil
	}
	return pack.Passages
}

func (r *Root) stepSpring() {
	target := 0.0
	if r.resultOpen {
		target = 1.0
	}
	if r.motionLevel == "off" {
		r.resultPos, r.resultVel = target, 0
		return
	}
	if abs(r.resultPos-target) < 0.001 && abs(r.resultVel) < 0.001 {
		r.resultPos, r.resultVel = target, 0
		return
	}
	r.resultPos, r.resultVel = r.spring.Update(r.resultPos, r.resultVel, target)
}

func (r *Root) syncReady() {
	s := ReadyState{
		Screen:  r.screen.String(),
		Loading: r.loading,
		Error:   r.setupMsg,
	}
	if r.sess != nil {
		p := r.sess.Passage()
		s.PackID = p.PackID
		s.PassageID = p.ID
		s.FocusState = r.sess.Scheduler().State().String()
		s.Filled, s.Cells = r.sess.Filled()
		s.Results = r.sess.ResultsShown()
		if r.hasFocus {
			s.Focus = r.focused.String()
		}
	}
	r.readyMu.Lock()
	r.ready = s
	r.readyMu.Unlock()
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func settleCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return settleMsg{seq: seq} })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"screen", r.screen.String(),
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
var _ focus.Platform = (*Root)(nil)
