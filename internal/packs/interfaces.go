package packs

import (
	"context"

	"clozedojo/internal/passage"
)

type Loader interface {
	LoadPacks(ctx context.Context, root string) ([]Pack, error)
	FindPassage(packs []Pack, packID string, passageID string) (Pack, passage.Passage, error)
}
