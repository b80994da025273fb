// Package preview plays a clip's sprite timeline on a clock, reporting
// which sprite is showing.
package preview

import (
	"math"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
)

const (
	MinSpeed = 0.1
	MaxSpeed = 3.0

	// refreshStep is how far time must move before an unchanged frame
	// is reported again.
	refreshStep = 0.05
)

type PlayState int

const (
	Playing PlayState = iota
	Paused
	Stopped
)

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	}
	return "Unknown"
}

// Frame is what the player shows at a point in time.
type Frame struct {
	Index  int
	Sprite string
	Time   float64
	State  PlayState
}

// Player is the playback state machine of one timeline.
type Player struct {
	timeline     *clip.Timeline
	state        PlayState
	speed        float64
	overrideLoop bool
	current      float64

	lastIndex int
	lastShown float64
	force     bool
}

// NewPlayer starts playing tl from the beginning at normal speed.
func NewPlayer(tl *clip.Timeline) *Player {
	p := &Player{speed: 1}
	p.Load(tl)
	return p
}

// Load replaces the timeline and restarts playback.
func (p *Player) Load(tl *clip.Timeline) {
	p.timeline = tl
	p.restart()
}

func (p *Player) restart() {
	p.current = 0
	p.state = Playing
	p.invalidate()
}

func (p *Player) invalidate() {
	p.lastIndex = -1
	p.lastShown = -1
	p.force = true
}

func (p *Player) State() PlayState { return p.state }

func (p *Player) Time() float64 { return p.current }

func (p *Player) Speed() float64 { return p.speed }

// Looping reports whether playback wraps around at the end.
func (p *Player) Looping() bool {
	return p.overrideLoop || p.timeline.Loop
}

// Play resumes playback, rewinding first if the player was stopped.
func (p *Player) Play() {
	if p.state == Stopped {
		p.current = 0
		p.invalidate()
	}
	p.state = Playing
}

func (p *Player) Pause() {
	p.state = Paused
}

// Stop rewinds to the start.
func (p *Player) Stop() {
	p.state = Stopped
	p.current = 0
	p.invalidate()
}

// Seek jumps to t, clamped to the timeline, and pauses.
func (p *Player) Seek(t float64) {
	p.current = clamp(t, 0, p.timeline.Length)
	p.state = Paused
	p.invalidate()
}

// SetSpeed sets the playback rate, clamped to [MinSpeed, MaxSpeed].
func (p *Player) SetSpeed(s float64) {
	p.speed = clamp(s, MinSpeed, MaxSpeed)
}

// SetLoop forces looping regardless of the clip setting. Changing it
// restarts playback.
func (p *Player) SetLoop(loop bool) {
	if loop == p.overrideLoop {
		return
	}
	p.overrideLoop = loop
	p.restart()
}

// Advance moves playback forward by dt seconds of wall time and returns
// the current frame. changed is false when nothing new needs showing.
func (p *Player) Advance(dt float64) (f Frame, changed bool) {
	if p.state == Playing {
		p.current += dt * p.speed

		length := p.timeline.Length
		if p.Looping() {
			if p.current > length {
				p.current = 0
			}
		} else if p.current >= length {
			p.current = length
			p.state = Stopped
			p.force = true
		}
	}

	return p.refresh()
}

func (p *Player) refresh() (Frame, bool) {
	idx := p.frameIndex()

	frameChanged := idx != p.lastIndex
	timeChanged := abs(p.current-p.lastShown) >= refreshStep
	if p.state != Playing && !p.force {
		timeChanged = false
	}

	if !frameChanged && !timeChanged && !p.force {
		return p.frame(idx), false
	}

	p.lastIndex = idx
	p.lastShown = p.current
	p.force = false
	return p.frame(idx), true
}

// frameIndex is the last key at or before the current time.
func (p *Player) frameIndex() int {
	idx := 0
	for i, f := range p.timeline.Frames {
		if p.current < f.Time {
			break
		}
		idx = i
	}
	return idx
}

func (p *Player) frame(idx int) Frame {
	f := Frame{Index: idx, Time: p.current, State: p.state}
	if idx < len(p.timeline.Frames) {
		f.Sprite = p.timeline.Frames[idx].Sprite
	}
	return f
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
