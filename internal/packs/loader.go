package packs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"clozedojo/internal/passage"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoPacks         = errors.New("no passage packs available")
	ErrPassageNotFound = errors.New("passage not found")
)

type FSLoader struct {
	// IncludeBuiltin adds the embedded packs to every LoadPacks result.
	IncludeBuiltin bool
}

func NewLoader() *FSLoader { return &FSLoader{IncludeBuiltin: true} }

// LoadPacks reads <root>/<dir>/pack.yaml for every pack directory. A missing
// root is not an error when built-in packs are included.
func (l *FSLoader) LoadPacks(ctx context.Context, root string) ([]Pack, error) {
	packs := make([]Pack, 0)
	if l.IncludeBuiltin {
		builtin, err := LoadBuiltin(ctx)
		if err != nil {
			return nil, err
		}
		packs = append(packs, builtin...)
	}

	if root != "" {
		local, err := loadFS(ctx, os.DirFS(root))
		switch {
		case errors.Is(err, fs.ErrNotExist) && l.IncludeBuiltin:
		case err != nil:
			return nil, fmt.Errorf("load packs %s: %w", root, err)
		}
		for i := range local {
			local[i].Path = filepath.Join(root, local[i].Path)
		}
		packs = append(packs, local...)
	}

	seen := map[string]string{}
	for _, p := range packs {
		if prev, ok := seen[p.PackID]; ok {
			return nil, fmt.Errorf("duplicate pack_id %q (%s and %s)", p.PackID, prev, p.Path)
		}
		seen[p.PackID] = p.Path
	}
	if len(packs) == 0 {
		return nil, ErrNoPacks
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].PackID < packs[j].PackID })
	return packs, nil
}

func loadFS(ctx context.Context, fsys fs.FS) ([]Pack, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	packs := make([]Pack, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		packYAML := path.Join(entry.Name(), "pack.yaml")
		if _, err := fs.Stat(fsys, packYAML); err != nil {
			continue
		}
		pack, err := readPack(fsys, packYAML)
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", entry.Name(), err)
		}
		pack.Path = entry.Name()
		applyPackDefaults(&pack)
		packs = append(packs, pack)
	}
	return packs, nil
}

func readPack(fsys fs.FS, name string) (Pack, error) {
	var pack Pack
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return pack, err
	}
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return pack, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := pack.Validate(); err != nil {
		return pack, fmt.Errorf("validate %s: %w", name, err)
	}
	return pack, nil
}

func applyPackDefaults(pack *Pack) {
	if pack.Version == "" {
		pack.Version = "0"
	}
	sort.SliceStable(pack.Passages, func(i, j int) bool {
		return pack.Passages[i].PassageID < pack.Passages[j].PassageID
	})
}

func (l *FSLoader) FindPassage(packs []Pack, packID string, passageID string) (Pack, passage.Passage, error) {
	return FindPassage(packs, packID, passageID)
}

// FindPassage builds the named passage. The result is not normalized.
func FindPassage(packs []Pack, packID string, passageID string) (Pack, passage.Passage, error) {
	for _, p := range packs {
		if p.PackID != packID {
			continue
		}
		for _, s := range p.Passages {
			if s.PassageID == passageID {
				built, err := s.Build(p)
				return p, built, err
			}
		}
	}
	return Pack{}, passage.Passage{}, fmt.Errorf("%w: %s/%s", ErrPassageNotFound, packID, passageID)
}

// NextPassage returns the passage after passageID in the same pack, wrapping
// to the first pack passage.
func NextPassage(packs []Pack, packID string, passageID string) (string, bool) {
	for _, p := range packs {
		if p.PackID != packID || len(p.Passages) == 0 {
			continue
		}
		for i, s := range p.Passages {
			if s.PassageID == passageID {
				return p.Passages[(i+1)%len(p.Passages)].PassageID, true
			}
		}
		return p.Passages[0].PassageID, true
	}
	return "", false
}
