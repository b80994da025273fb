package clip

import (
	"errors"

	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/unityyaml"
)

var errNoClip = errors.New("clip: no AnimationClip object in asset")

// ResolvedSprite is what a keyframe reference points to.
type ResolvedSprite struct {
	Name        string
	TexturePath string
}

// Resolver looks up the sprite behind a keyframe reference.
type Resolver interface {
	ResolveSprite(ref unityyaml.Ref) (ResolvedSprite, bool)
}

// Document is the exported clip JSON.
type Document struct {
	ClipName    string        `json:"clipName"`
	Loop        bool          `json:"loop"`
	TexturePath string        `json:"texturePath"`
	Duration    float64       `json:"duration"`
	Frames      []FrameRecord `json:"frames"`
	Events      []EventRecord `json:"events"`
}

type FrameRecord struct {
	Sprite string  `json:"sprite"`
	Time   float64 `json:"time"`
}

type EventRecord struct {
	Function  string  `json:"function"`
	Parameter string  `json:"parameter"`
	Time      float64 `json:"time"`
}

// Export builds the document for a sprite clip. path is only used in
// error messages. Keys whose sprite cannot be resolved are skipped.
func Export(c *Clip, path string, r Resolver) (*Document, error) {
	curve, ok := c.SpriteCurve()
	if !ok {
		return nil, &errs.NoSpriteDataError{Path: path, Reason: "not a sprite animation"}
	}
	if len(curve.Keys) == 0 {
		return nil, &errs.NoSpriteDataError{Path: path, Reason: "no sprite keyframes"}
	}

	doc := &Document{
		ClipName: c.Name,
		Loop:     c.Loop,
		Duration: c.Length(),
		Frames:   make([]FrameRecord, 0, len(curve.Keys)),
		Events:   make([]EventRecord, 0, len(c.Events)),
	}

	if first, ok := r.ResolveSprite(curve.Keys[0].Value); ok {
		doc.TexturePath = first.TexturePath
	}

	for _, k := range curve.Keys {
		sp, ok := r.ResolveSprite(k.Value)
		if !ok {
			continue
		}
		doc.Frames = append(doc.Frames, FrameRecord{Sprite: sp.Name, Time: k.Time})
	}

	for _, ev := range c.Events {
		doc.Events = append(doc.Events, EventRecord{
			Function:  ev.Function,
			Parameter: ev.Data,
			Time:      ev.Time,
		})
	}

	return doc, nil
}

// Timeline is the resolved sprite sequence of a clip, used for playback.
type Timeline struct {
	Name   string
	Length float64
	Loop   bool
	Frames []TimelineFrame
}

type TimelineFrame struct {
	Time   float64
	Sprite string
}

// NewTimeline resolves the clip's sprite keys. Unresolved keys are kept
// with an empty sprite name so frame indices match the asset.
func NewTimeline(c *Clip, path string, r Resolver) (*Timeline, error) {
	curve, ok := c.SpriteCurve()
	if !ok {
		return nil, &errs.NoSpriteDataError{Path: path, Reason: "not a sprite animation"}
	}
	if len(curve.Keys) == 0 {
		return nil, &errs.NoSpriteDataError{Path: path, Reason: "no sprite keyframes"}
	}

	tl := &Timeline{
		Name:   c.Name,
		Length: c.Length(),
		Loop:   c.Loop,
		Frames: make([]TimelineFrame, 0, len(curve.Keys)),
	}
	for _, k := range curve.Keys {
		sp, _ := r.ResolveSprite(k.Value)
		tl.Frames = append(tl.Frames, TimelineFrame{Time: k.Time, Sprite: sp.Name})
	}
	return tl, nil
}
