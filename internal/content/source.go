package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"clozedojo/internal/packs"
	"clozedojo/internal/passage"
)

// ErrNotFound is permanent: retrying will not make the passage appear.
var ErrNotFound = errors.New("content not found")

type Ref struct {
	PackID    string
	PassageID string
}

func (r Ref) String() string {
	return r.PackID + "/" + r.PassageID
}

// Source supplies passages. Implementations may fail transiently.
type Source interface {
	Fetch(ctx context.Context, ref Ref) (passage.Passage, error)
}

// PackSource serves passages from YAML packs. Packs are loaded lazily on the
// first fetch and can be swapped with SetPacks when the pack directory changes.
type PackSource struct {
	loader packs.Loader
	root   string

	mu    sync.RWMutex
	packs []packs.Pack
}

func NewPackSource(loader packs.Loader, root string) *PackSource {
	return &PackSource{loader: loader, root: root}
}

func (s *PackSource) SetPacks(p []packs.Pack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs = append([]packs.Pack(nil), p...)
}

// Packs returns the loaded packs, loading them if needed.
func (s *PackSource) Packs(ctx context.Context) ([]packs.Pack, error) {
	s.mu.RLock()
	loaded := s.packs
	s.mu.RUnlock()
	if loaded != nil {
		return loaded, nil
	}
	fresh, err := s.loader.LoadPacks(ctx, s.root)
	if err != nil {
		return nil, err
	}
	s.SetPacks(fresh)
	return fresh, nil
}

func (s *PackSource) Fetch(ctx context.Context, ref Ref) (passage.Passage, error) {
	all, err := s.Packs(ctx)
	if err != nil {
		return passage.Passage{}, fmt.Errorf("load packs: %w", err)
	}
	_, p, err := s.loader.FindPassage(all, ref.PackID, ref.PassageID)
	if errors.Is(err, packs.ErrPassageNotFound) {
		return passage.Passage{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return p, err
}
