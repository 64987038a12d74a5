package ui

import (
	"time"

	"clozedojo/internal/engine"
	"clozedojo/internal/focus"
	"clozedojo/internal/passage"
	"clozedojo/internal/session"
)

// Controller receives user intents from the view. Calls arrive on their own
// goroutine; the view never waits for them.
type Controller interface {
	OnStartPassage(packID, passageID string)
	OnBackToPicker()
	OnSubmit(result session.Result)
	OnRetry()
	OnNextPassage()
	OnAction(kind engine.ActionKind, mutated bool)
	OnFocusCorrected(cell engine.Cell)
	OnTimeUp()
	OnCopyResults(text string)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetCatalog(packs []PackSummary)
	SetSelection(packID, passageID string)
	SetLoading(loading bool, label string)
	SetSetupError(msg, details string)
	StartExercise(spec ExerciseSpec)
	FlashStatus(msg string)
	Ready() ReadyState
}

type Screen int

const (
	ScreenPicker Screen = iota
	ScreenExercise
)

func (s Screen) String() string {
	if s == ScreenExercise {
		return "exercise"
	}
	return "picker"
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutNarrow
	LayoutTooSmall
)

// ExerciseSpec is everything the view needs to run one passage.
type ExerciseSpec struct {
	Passage   passage.Passage
	PackName  string
	ModeLabel string
	Layout    engine.Layout
	Focus     focus.Config
	TimeLimit time.Duration
}

type PackSummary struct {
	PackID        string
	Name          string
	DescriptionMD string
	Passages      []PassageSummary
}

type PassageSummary struct {
	PassageID    string
	Title        string
	Blanks       int
	TimeLimitSec int
	Attempts     int
	BestScore    int
	MaxScore     int
	LastPlayed   time.Time
}

// ReadyState is a snapshot of the view for the dev HTTP server.
type ReadyState struct {
	Screen     string `json:"screen"`
	PackID     string `json:"pack_id,omitempty"`
	PassageID  string `json:"passage_id,omitempty"`
	Focus      string `json:"focus,omitempty"`
	FocusState string `json:"focus_state,omitempty"`
	Filled     int    `json:"filled"`
	Cells      int    `json:"cells"`
	Results    bool   `json:"results"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
}
