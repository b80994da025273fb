// Package pack stores frame sequences of a sprite sheet as engine
// animations in a bbolt resource file.
package pack

import (
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/alacrity-engine/core/math/geometry"
	codec "github.com/alacrity-engine/resource-codec"
	bolt "go.etcd.io/bbolt"

	"github.com/alacrity-engine/sprite-tool/internal/sheet"
)

// Buckets of the resource file.
var (
	AnimationsBucket = []byte("animations")
	TagsBucket       = []byte("tags")
	TexturesBucket   = []byte("textures")
)

// Options control what is written.
type Options struct {
	Grouper sheet.Grouper
	// TextureID names the texture resource the frames cut from. It
	// defaults to the texture file name without extension.
	TextureID string
	// Tag groups the written animations. It defaults to TextureID.
	Tag string
	// VerifyTexture requires TextureID to be present in the textures
	// bucket before anything is written.
	VerifyTexture bool
}

// Result lists the animations written and the groups left out.
type Result struct {
	TextureID  string
	Tag        string
	Animations []string
	Rejected   []string
}

// Open opens or creates the resource file.
func Open(file string) (*bolt.DB, error) {
	db, err := bolt.Open(file, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("pack: open %s: %w", file, err)
	}
	return db, nil
}

// Write stores every accepted frame group of s as an animation.
func Write(db *bolt.DB, s *sheet.Sheet, opts Options) (*Result, error) {
	textureID := opts.TextureID
	if textureID == "" {
		textureID = strings.TrimSuffix(s.Texture, path.Ext(s.Texture))
	}
	tag := opts.Tag
	if tag == "" {
		tag = textureID
	}

	groups, rejected := opts.Grouper.GroupAndOrder(s.Sprites)
	res := &Result{TextureID: textureID, Tag: tag, Rejected: rejected}

	err := db.Update(func(tx *bolt.Tx) error {
		if opts.VerifyTexture {
			if err := verifyTexture(tx, textureID); err != nil {
				return err
			}
		}

		animBucket, err := tx.CreateBucketIfNotExists(AnimationsBucket)
		if err != nil {
			return err
		}

		for i := range groups {
			data, err := Animation(&groups[i], textureID).ToBytes()
			if err != nil {
				return err
			}
			if err := animBucket.Put([]byte(groups[i].Key), data); err != nil {
				return err
			}
			res.Animations = append(res.Animations, groups[i].Key)
		}

		if len(res.Animations) == 0 {
			return nil
		}

		tagBucket, err := tx.CreateBucketIfNotExists(TagsBucket)
		if err != nil {
			return err
		}
		tagData, err := codec.EncodeTag(res.Animations)
		if err != nil {
			return err
		}
		return tagBucket.Put([]byte(tag), tagData)
	})
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}

	return res, nil
}

// Animation converts a frame group into the engine's animation data.
// Durations are whole milliseconds.
func Animation(g *sheet.Group, textureID string) *codec.AnimationData {
	anim := &codec.AnimationData{
		TextureID: textureID,
		Frames:    make([]geometry.Rect, 0, len(g.Frames)),
		Durations: make([]int32, 0, len(g.Frames)),
	}

	ms := int32(math.Round(g.FrameDuration() * 1000))
	for _, f := range g.Frames {
		r := f.Rect
		anim.Frames = append(anim.Frames, geometry.R(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
		anim.Durations = append(anim.Durations, ms)
	}

	return anim
}

func verifyTexture(tx *bolt.Tx, textureID string) error {
	buck := tx.Bucket(TexturesBucket)
	if buck == nil {
		return fmt.Errorf("the textures bucket not found")
	}

	textureBytes := buck.Get([]byte(textureID))
	if textureBytes == nil {
		return fmt.Errorf("texture '%s' not found", textureID)
	}

	if _, err := codec.TextureDataFromBytes(textureBytes); err != nil {
		return fmt.Errorf("texture '%s': %w", textureID, err)
	}
	return nil
}
