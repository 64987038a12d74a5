package app

import (
	"context"

	"clozedojo/internal/content"
	"clozedojo/internal/packs"
	"clozedojo/internal/state"
)

// Store is the part of the result sink the controller uses.
type Store interface {
	RecordResult(ctx context.Context, run state.RunResult) (int64, error)
	GetProgressMap(ctx context.Context) (map[string]state.PassageProgress, error)
	GetSummary(ctx context.Context) (state.Summary, error)
	GetLastRun(ctx context.Context) (*state.LastRun, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	Close() error
}

// PassageSource fetches passages and lists the packs they come from.
type PassageSource interface {
	content.Source
	Packs(ctx context.Context) ([]packs.Pack, error)
	SetPacks(p []packs.Pack)
}

type Clipboard interface {
	WriteAll(text string) error
}
