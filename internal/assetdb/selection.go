package assetdb

import (
	"os"
	"path"
	"strings"

	"github.com/alacrity-engine/sprite-tool/internal/errs"
)

// Kind is the closed set of asset kinds commands accept.
type Kind int

const (
	KindOther Kind = iota
	KindTexture
	KindSprite
	KindClip
	KindController
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "Texture2D"
	case KindSprite:
		return "Sprite"
	case KindClip:
		return "AnimationClip"
	case KindController:
		return "AnimatorController"
	default:
		return "Object"
	}
}

var textureExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tga": true, ".tif": true, ".tiff": true, ".psd": true, ".webp": true,
	".exr": true, ".hdr": true,
}

// Asset is a resolved selection.
type Asset struct {
	Kind Kind
	// Path is the project-relative asset path.
	Path string
	// Sprite is the sprite name for KindSprite selections.
	Sprite string
}

// Is reports whether the asset has one of the kinds.
func (a Asset) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Require fails with InvalidSelectionError unless the asset has one of
// the kinds.
func (a Asset) Require(kinds ...Kind) error {
	if a.Is(kinds...) {
		return nil
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return &errs.InvalidSelectionError{
		Path:   a.Path,
		Reason: "selected " + a.Kind.String() + ", expected " + strings.Join(names, " or "),
	}
}

// Select resolves a command-line selection. A sprite inside a texture is
// selected as "texture.png#SpriteName".
func (db *DB) Select(sel string) (Asset, error) {
	if sel == "" {
		return Asset{}, &errs.InvalidSelectionError{Reason: "nothing selected"}
	}

	file, sprite, hasSprite := strings.Cut(sel, "#")
	p, err := db.AssetPath(file)
	if err != nil {
		return Asset{}, err
	}

	info, err := os.Stat(db.Abs(p))
	if err != nil {
		return Asset{}, &errs.InvalidSelectionError{Path: p, Reason: "asset does not exist"}
	}
	if info.IsDir() {
		return Asset{}, &errs.InvalidSelectionError{Path: p, Reason: "a folder is not an asset"}
	}

	a := Asset{Path: p}
	switch ext := strings.ToLower(path.Ext(p)); {
	case textureExts[ext] && hasSprite:
		a.Kind = KindSprite
		a.Sprite = sprite
	case textureExts[ext]:
		a.Kind = KindTexture
	case ext == ".anim":
		a.Kind = KindClip
	case ext == ".controller":
		a.Kind = KindController
	}
	return a, nil
}
