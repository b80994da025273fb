// Package clip reads sprite animation clips and builds their JSON export.
package clip

import (
	"github.com/alacrity-engine/sprite-tool/internal/unityyaml"
)

// Sprite curve attributes, for SpriteRenderer and UI Image respectively.
const (
	AttributeSprite   = "m_Sprite"
	AttributeUISprite = "sprite"
)

// Key is one object-reference keyframe.
type Key struct {
	Time  float64
	Value unityyaml.Ref
}

// Curve is an object-reference curve bound to one property.
type Curve struct {
	Attribute string
	Path      string
	ClassID   int
	Keys      []Key
}

// Event is a function call fired at a point of the timeline.
type Event struct {
	Time     float64
	Function string
	Data     string
}

// Clip is an animation clip as stored in the asset.
type Clip struct {
	Name       string
	SampleRate float64
	StartTime  float64
	StopTime   float64
	Loop       bool
	Curves     []Curve
	Events     []Event
}

// SpriteCurve returns the first curve that animates a sprite.
func (c *Clip) SpriteCurve() (*Curve, bool) {
	for i := range c.Curves {
		a := c.Curves[i].Attribute
		if a == AttributeSprite || a == AttributeUISprite {
			return &c.Curves[i], true
		}
	}
	return nil, false
}

// Length is the clip's playback length in seconds. Clips saved without
// a stop time fall back to the last sprite key plus one sample.
func (c *Clip) Length() float64 {
	if c.StopTime > c.StartTime {
		return c.StopTime - c.StartTime
	}

	curve, ok := c.SpriteCurve()
	if !ok || len(curve.Keys) == 0 {
		return 0
	}
	last := curve.Keys[len(curve.Keys)-1].Time
	if c.SampleRate > 0 {
		last += 1 / c.SampleRate
	}
	return last
}

// Asset is the serialized AnimationClip body.
type Asset struct {
	ObjectHideFlags      int              `yaml:"m_ObjectHideFlags"`
	Name                 string           `yaml:"m_Name"`
	SerializedVersion    int              `yaml:"serializedVersion"`
	Legacy               int              `yaml:"m_Legacy"`
	Compressed           int              `yaml:"m_Compressed"`
	UseHighQualityCurve  int              `yaml:"m_UseHighQualityCurve"`
	RotationCurves       []interface{}    `yaml:"m_RotationCurves"`
	CompressedRotations  []interface{}    `yaml:"m_CompressedRotationCurves"`
	EulerCurves          []interface{}    `yaml:"m_EulerCurves"`
	PositionCurves       []interface{}    `yaml:"m_PositionCurves"`
	ScaleCurves          []interface{}    `yaml:"m_ScaleCurves"`
	FloatCurves          []interface{}    `yaml:"m_FloatCurves"`
	PPtrCurves           []AssetCurve     `yaml:"m_PPtrCurves"`
	SampleRate           float64          `yaml:"m_SampleRate"`
	WrapMode             int              `yaml:"m_WrapMode"`
	ClipBindingConstant  BindingConstant  `yaml:"m_ClipBindingConstant"`
	AnimationClipSetting AnimationSetting `yaml:"m_AnimationClipSettings"`
	EditorCurves         []interface{}    `yaml:"m_EditorCurves"`
	EulerEditorCurves    []interface{}    `yaml:"m_EulerEditorCurves"`
	HasGenericRootTrans  int              `yaml:"m_HasGenericRootTransform"`
	HasMotionFloatCurves int              `yaml:"m_HasMotionFloatCurves"`
	Events               []AssetEvent     `yaml:"m_Events"`
}

type AssetCurve struct {
	Curve     []AssetKey    `yaml:"curve"`
	Attribute string        `yaml:"attribute"`
	Path      string        `yaml:"path"`
	ClassID   int           `yaml:"classID"`
	Script    unityyaml.Ref `yaml:"script"`
}

type AssetKey struct {
	Time  float64       `yaml:"time"`
	Value unityyaml.Ref `yaml:"value"`
}

type BindingConstant struct {
	GenericBindings  []GenericBinding `yaml:"genericBindings"`
	PPtrCurveMapping []unityyaml.Ref  `yaml:"pptrCurveMapping"`
}

type GenericBinding struct {
	SerializedVersion int           `yaml:"serializedVersion"`
	Path              int64         `yaml:"path"`
	Attribute         int64         `yaml:"attribute"`
	Script            unityyaml.Ref `yaml:"script"`
	TypeID            int           `yaml:"typeID"`
	CustomType        int           `yaml:"customType"`
	IsPPtrCurve       int           `yaml:"isPPtrCurve"`
}

type AnimationSetting struct {
	SerializedVersion int     `yaml:"serializedVersion"`
	StartTime         float64 `yaml:"m_StartTime"`
	StopTime          float64 `yaml:"m_StopTime"`
	OrientationOffset float64 `yaml:"m_OrientationOffsetY"`
	Level             float64 `yaml:"m_Level"`
	CycleOffset       float64 `yaml:"m_CycleOffset"`
	HasAdditiveRef    int     `yaml:"m_HasAdditiveReferencePose"`
	LoopTime          int     `yaml:"m_LoopTime"`
	LoopBlend         int     `yaml:"m_LoopBlend"`
	KeepOriginalY     int     `yaml:"m_KeepOriginalPositionY"`
	KeepOriginalXZ    int     `yaml:"m_KeepOriginalPositionXZ"`
	HeightFromFeet    int     `yaml:"m_HeightFromFeet"`
	Mirror            int     `yaml:"m_Mirror"`
}

type AssetEvent struct {
	Time                     float64       `yaml:"time"`
	FunctionName             string        `yaml:"functionName"`
	Data                     string        `yaml:"data"`
	ObjectReferenceParameter unityyaml.Ref `yaml:"objectReferenceParameter"`
	FloatParameter           float64       `yaml:"floatParameter"`
	IntParameter             int           `yaml:"intParameter"`
	MessageOptions           int           `yaml:"messageOptions"`
}

// FromAsset converts the serialized body into a Clip.
func FromAsset(a *Asset) *Clip {
	c := &Clip{
		Name:       a.Name,
		SampleRate: a.SampleRate,
		StartTime:  a.AnimationClipSetting.StartTime,
		StopTime:   a.AnimationClipSetting.StopTime,
		Loop:       a.AnimationClipSetting.LoopTime != 0,
	}

	for _, ac := range a.PPtrCurves {
		curve := Curve{
			Attribute: ac.Attribute,
			Path:      ac.Path,
			ClassID:   ac.ClassID,
			Keys:      make([]Key, 0, len(ac.Curve)),
		}
		for _, k := range ac.Curve {
			curve.Keys = append(curve.Keys, Key{Time: k.Time, Value: k.Value})
		}
		c.Curves = append(c.Curves, curve)
	}

	for _, ev := range a.Events {
		c.Events = append(c.Events, Event{
			Time:     ev.Time,
			Function: ev.FunctionName,
			Data:     ev.Data,
		})
	}

	return c
}

// Parse reads a clip from the contents of an .anim file.
func Parse(data []byte) (*Clip, error) {
	f, err := unityyaml.Parse(data)
	if err != nil {
		return nil, err
	}
	doc, ok := f.First(unityyaml.ClassAnimationClip)
	if !ok {
		return nil, errNoClip
	}

	var a Asset
	if err := doc.Decode(&a); err != nil {
		return nil, err
	}
	return FromAsset(&a), nil
}
