package preview

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
)

func idleTimeline(loop bool) *clip.Timeline {
	return &clip.Timeline{
		Name:   "Idle",
		Length: 1,
		Loop:   loop,
		Frames: []clip.TimelineFrame{
			{Time: 0, Sprite: "Idle_0"},
			{Time: 0.25, Sprite: "Idle_1"},
			{Time: 0.5, Sprite: "Idle_2"},
		},
	}
}

func TestAdvanceFrames(t *testing.T) {
	p := NewPlayer(idleTimeline(false))

	steps := []struct {
		dt      float64
		sprite  string
		changed bool
	}{
		{0, "Idle_0", true},
		{0.01, "Idle_0", false},
		{0.05, "Idle_0", true},
		{0.2, "Idle_1", true},
		{0.3, "Idle_2", true},
	}
	for i, s := range steps {
		f, changed := p.Advance(s.dt)
		if f.Sprite != s.sprite || changed != s.changed {
			t.Fatalf("step %d: got %q changed=%v, want %q changed=%v",
				i, f.Sprite, changed, s.sprite, s.changed)
		}
	}
}

func TestOnceStopsAtEnd(t *testing.T) {
	p := NewPlayer(idleTimeline(false))
	p.Advance(0)

	f, changed := p.Advance(2)
	if !changed || f.State != Stopped || f.Time != 1 || f.Sprite != "Idle_2" {
		t.Fatalf("unexpected end frame %+v changed=%v", f, changed)
	}

	p.Play()
	if p.State() != Playing || p.Time() != 0 {
		t.Fatalf("Play after stop should rewind, got %v at %v", p.State(), p.Time())
	}
}

func TestLoopWraps(t *testing.T) {
	p := NewPlayer(idleTimeline(true))
	p.Advance(0.9)

	f, _ := p.Advance(0.2)
	if f.Time != 0 || f.Sprite != "Idle_0" || f.State != Playing {
		t.Fatalf("expected wrap to start, got %+v", f)
	}
}

func TestOverrideLoop(t *testing.T) {
	p := NewPlayer(idleTimeline(false))
	p.Advance(0.6)

	p.SetLoop(true)
	if p.Time() != 0 || !p.Looping() {
		t.Fatalf("SetLoop should restart looping, got t=%v looping=%v", p.Time(), p.Looping())
	}
	f, _ := p.Advance(1.5)
	if f.State != Playing || f.Time != 0 {
		t.Fatalf("looping player stopped: %+v", f)
	}
}

func TestControls(t *testing.T) {
	p := NewPlayer(idleTimeline(false))
	p.Advance(0)

	p.Seek(0.3)
	f, changed := p.Advance(0.5)
	if !changed || f.State != Paused || f.Sprite != "Idle_1" || f.Time != 0.3 {
		t.Fatalf("seek: %+v changed=%v", f, changed)
	}
	if _, changed := p.Advance(0.5); changed {
		t.Fatalf("paused player reported a change")
	}

	p.Seek(5)
	if p.Time() != 1 {
		t.Fatalf("seek not clamped: %v", p.Time())
	}

	p.Stop()
	f, changed = p.Advance(0.1)
	if !changed || f.State != Stopped || f.Time != 0 {
		t.Fatalf("stop: %+v changed=%v", f, changed)
	}

	cases := []struct{ in, want float64 }{{0, MinSpeed}, {2, 2}, {10, MaxSpeed}}
	for _, c := range cases {
		p.SetSpeed(c.in)
		if p.Speed() != c.want {
			t.Fatalf("SetSpeed(%v) = %v, want %v", c.in, p.Speed(), c.want)
		}
	}
}

func TestNonFiniteControls(t *testing.T) {
	p := NewPlayer(idleTimeline(false))

	p.SetSpeed(math.NaN())
	if p.Speed() != MinSpeed {
		t.Fatalf("SetSpeed(NaN) = %v, want %v", p.Speed(), MinSpeed)
	}
	p.SetSpeed(math.Inf(1))
	if p.Speed() != MaxSpeed {
		t.Fatalf("SetSpeed(+Inf) = %v, want %v", p.Speed(), MaxSpeed)
	}

	p.Seek(math.NaN())
	if p.Time() != 0 {
		t.Fatalf("Seek(NaN) = %v, want 0", p.Time())
	}

	// A once-through clip must still reach its end and stop.
	p.Play()
	for i := 0; i < 600 && p.State() == Playing; i++ {
		p.Advance(1.0 / 60)
	}
	if p.State() != Stopped || p.Time() != 1 {
		t.Fatalf("state %v at %v, want stopped at 1", p.State(), p.Time())
	}
}

func TestSpeedScalesTime(t *testing.T) {
	p := NewPlayer(idleTimeline(true))
	p.SetSpeed(2)
	f, _ := p.Advance(0.25)
	if f.Time != 0.5 || f.Sprite != "Idle_2" {
		t.Fatalf("got %+v", f)
	}
}

type frameLog struct {
	mu     sync.Mutex
	frames []Frame
}

func (l *frameLog) show(f Frame) {
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()
}

func (l *frameLog) last() (Frame, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.frames) == 0 {
		return Frame{}, 0
	}
	return l.frames[len(l.frames)-1], len(l.frames)
}

func TestRunnerStopsWithoutWatch(t *testing.T) {
	tl := idleTimeline(false)
	tl.Length = 0.05

	var log frameLog
	p := NewPlayer(tl)
	p.SetSpeed(MaxSpeed)
	r := NewRunner(p, log.show)
	r.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, n := log.last()
	if n == 0 || f.State != Stopped {
		t.Fatalf("last frame %+v of %d", f, n)
	}
}

func TestRunnerCommands(t *testing.T) {
	var log frameLog
	r := NewRunner(NewPlayer(idleTimeline(true)), log.show)
	r.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Do(ctx, func(p *Player) { p.Stop() }); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunnerContextCancel(t *testing.T) {
	r := NewRunner(NewPlayer(idleTimeline(true)), nil)
	r.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Run(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
}

func TestRunnerReloadsOnChange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Idle.anim")
	if err := os.WriteFile(file, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log frameLog
	r := NewRunner(NewPlayer(idleTimeline(true)), log.show)
	r.Watch = []string{file}
	reloaded := make(chan struct{}, 1)
	r.Reload = func() (*clip.Timeline, error) {
		tl := idleTimeline(true)
		tl.Frames[0].Sprite = "Idle_new"
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return tl, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Keep writing until the watcher, started inside Run, sees a change.
	// Writes are spaced wider than the debounce window.
	tick := time.NewTicker(3 * debounce)
	defer tick.Stop()
	for waiting := true; waiting; {
		select {
		case <-reloaded:
			waiting = false
		case <-tick.C:
			if err := os.WriteFile(file, []byte("v2"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-ctx.Done():
			t.Fatalf("no reload before timeout")
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run = %v", err)
	}
	if r.Player.timeline.Frames[0].Sprite != "Idle_new" {
		t.Fatalf("timeline was not replaced")
	}
}

func TestWatcherReportsLastWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Idle.anim")
	if err := os.WriteFile(file, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// A save in two steps, closer together than the debounce window.
	if err := os.WriteFile(file, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(debounce / 4)
	if err := os.WriteFile(file, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	lastWrite := time.Now()

	select {
	case name := <-w.Events:
		if elapsed := time.Since(lastWrite); elapsed < debounce/2 {
			t.Fatalf("reported %v after the last write, before the file went quiet", elapsed)
		}
		data, err := os.ReadFile(name)
		if err != nil || string(data) != "v2" {
			t.Fatalf("read %q, %v at the time of the event", data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("second event for %s", name)
	case <-time.After(3 * debounce):
	}
}
