package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	RecordResult(ctx context.Context, run RunResult) (int64, error)
	GetRunAnswers(ctx context.Context, runID int64) ([]BlankAnswer, error)
	GetProgressMap(ctx context.Context) (map[string]PassageProgress, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	GetSummary(ctx context.Context) (Summary, error)
	GetLastRun(ctx context.Context) (*LastRun, error)
	Close() error
}

// RunResult is one submitted passage as the result sink receives it.
type RunResult struct {
	SessionID string
	PackID    string
	PassageID string
	Mode      string
	Layout    string
	StartTS   time.Time
	FinishTS  time.Time
	Score     int
	MaxScore  int
	TimeSpent time.Duration
	Overtime  bool
	Blanks    []BlankAnswer
}

type BlankAnswer struct {
	BlankID  int
	Expected string
	Given    string
	Correct  bool
	Distance int
}

type Summary struct {
	Runs         int
	PerfectRuns  int
	BlanksTotal  int
	BlanksRight  int
	TimeSpentSum time.Duration
}

type LastRun struct {
	PackID    string
	PassageID string
	Mode      string
	FinishTS  time.Time
	Score     int
	MaxScore  int
	TimeSpent time.Duration
}

type PassageProgress struct {
	PackID        string
	PassageID     string
	Attempts      int
	PerfectCount  int
	BestScore     int
	MaxScore      int
	BestTimeMS    int64
	LastPlayedTS  time.Time
	LastPerfectTS time.Time
}

// ProgressKey is the map key used by GetProgressMap.
func ProgressKey(packID, passageID string) string {
	return packID + "/" + passageID
}
