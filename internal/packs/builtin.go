package packs

import (
	"context"
	"embed"
	"io/fs"
)

//go:embed builtin
var builtinFS embed.FS

// LoadBuiltin reads the packs compiled into the binary.
func LoadBuiltin(ctx context.Context) ([]Pack, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	packs, err := loadFS(ctx, sub)
	if err != nil {
		return nil, err
	}
	for i := range packs {
		packs[i].Builtin = true
		packs[i].Path = "builtin/" + packs[i].Path
	}
	return packs, nil
}
