// Package autoclip turns the frame sequences of a sliced texture into
// sprite animation clip assets.
package autoclip

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/sheet"
	"github.com/alacrity-engine/sprite-tool/internal/unityyaml"
)

const (
	clipFileID = 7400000
	// spriteRefType is the PPtr type of references into imported assets.
	spriteRefType = 3
	// spriteRendererCustomType marks a generic binding to a renderer's sprite.
	spriteRendererCustomType = 23
)

// AssetIndex is where created assets are registered and written.
type AssetIndex interface {
	Abs(assetPath string) string
	Register(assetPath, guid string)
}

// Options control clip generation.
type Options struct {
	Grouper sheet.Grouper
	Loop    bool
}

// Result lists what happened to each group.
type Result struct {
	Created []string
	// Skipped holds groups whose clip already existed and groups
	// rejected for badly formed names.
	Skipped  []string
	Rejected []string
}

// Create writes one clip per accepted frame group of s into folder, a
// project-relative asset folder. Existing clips are left untouched.
func Create(idx AssetIndex, s *sheet.Sheet, folder string, opts Options) (*Result, error) {
	groups, rejected := opts.Grouper.GroupAndOrder(s.Sprites)

	res := &Result{Rejected: rejected}
	for _, key := range rejected {
		log.Printf("group %q of %s has sprite names without a frame number, skipped: %v",
			key, s.Path, opts.Grouper.InvalidNames(s.Sprites, key))
		res.Skipped = append(res.Skipped, key)
	}

	if err := os.MkdirAll(idx.Abs(folder), 0o755); err != nil {
		return nil, fmt.Errorf("autoclip: %w", err)
	}

	for i := range groups {
		g := &groups[i]
		clipPath := path.Join(folder, g.Key+".anim")

		if _, err := os.Stat(idx.Abs(clipPath)); err == nil {
			res.Skipped = append(res.Skipped, g.Key)
			continue
		}

		data, err := Render(g, s.GUID, opts.Loop)
		if err != nil {
			return nil, err
		}
		guid, err := newGUID()
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(idx.Abs(clipPath), data, 0o644); err != nil {
			return nil, fmt.Errorf("autoclip: %w", err)
		}
		if err := os.WriteFile(idx.Abs(clipPath)+".meta", renderMeta(guid), 0o644); err != nil {
			return nil, fmt.Errorf("autoclip: %w", err)
		}

		idx.Register(clipPath, guid)
		res.Created = append(res.Created, g.Key)
	}

	return res, nil
}

// Render produces the clip asset for one frame group. textureGUID is the
// GUID of the texture the sprites were sliced from.
func Render(g *sheet.Group, textureGUID string, loop bool) ([]byte, error) {
	keys := make([]clip.AssetKey, 0, len(g.Frames))
	mapping := make([]unityyaml.Ref, 0, len(g.Frames))

	for i, f := range g.Frames {
		ref := unityyaml.Ref{FileID: f.FileID, GUID: textureGUID, Type: spriteRefType}
		keys = append(keys, clip.AssetKey{Time: g.KeyTime(i), Value: ref})
		mapping = append(mapping, ref)
	}

	a := clip.Asset{
		Name:              g.Key,
		SerializedVersion: 7,
		PPtrCurves: []clip.AssetCurve{{
			Curve:     keys,
			Attribute: clip.AttributeSprite,
			ClassID:   unityyaml.ClassSpriteRenderer,
		}},
		SampleRate: g.FrameRate,
		ClipBindingConstant: clip.BindingConstant{
			GenericBindings: []clip.GenericBinding{{
				SerializedVersion: 2,
				Attribute:         0,
				TypeID:            unityyaml.ClassSpriteRenderer,
				CustomType:        spriteRendererCustomType,
				IsPPtrCurve:       1,
			}},
			PPtrCurveMapping: mapping,
		},
		AnimationClipSetting: clip.AnimationSetting{
			SerializedVersion: 2,
			StopTime:          g.Length(),
			LoopTime:          boolInt(loop),
			KeepOriginalY:     1,
			KeepOriginalXZ:    1,
		},
	}

	return unityyaml.Encode(unityyaml.EncodeDoc{
		ClassID: unityyaml.ClassAnimationClip,
		FileID:  clipFileID,
		Type:    "AnimationClip",
		Body:    a,
	})
}

func renderMeta(guid string) []byte {
	return []byte(fmt.Sprintf(`fileFormatVersion: 2
guid: %s
NativeFormatImporter:
  externalObjects: {}
  mainObjectFileID: %d
  userData:
  assetBundleName:
  assetBundleVariant:
`, guid, clipFileID))
}

func newGUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("autoclip: guid: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
