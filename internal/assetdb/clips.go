package assetdb

import (
	"fmt"
	"os"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/unityyaml"
)

// LoadClip reads an animation clip. Results are cached for the lifetime
// of the DB; use ReloadClip after the file changed.
func (db *DB) LoadClip(assetPath string) (*clip.Clip, error) {
	if c, ok := db.clips[assetPath]; ok {
		return c, nil
	}
	return db.ReloadClip(assetPath)
}

// ReloadClip reads an animation clip from disk, replacing any cached copy.
func (db *DB) ReloadClip(assetPath string) (*clip.Clip, error) {
	data, err := os.ReadFile(db.Abs(assetPath))
	if err != nil {
		return nil, fmt.Errorf("assetdb: clip: %w", err)
	}
	c, err := clip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assetdb: %s: %w", assetPath, err)
	}
	db.clips[assetPath] = c
	return c, nil
}

// ResolveSprite finds the sprite a keyframe references.
func (db *DB) ResolveSprite(ref unityyaml.Ref) (clip.ResolvedSprite, bool) {
	p, ok := db.guidToPath[ref.GUID]
	if !ok {
		return clip.ResolvedSprite{}, false
	}
	s, err := db.LoadSheet(p)
	if err != nil {
		return clip.ResolvedSprite{}, false
	}
	for _, sp := range s.Sprites {
		if sp.FileID == ref.FileID {
			return clip.ResolvedSprite{Name: sp.Name, TexturePath: p}, true
		}
	}
	return clip.ResolvedSprite{}, false
}
