package preview

import (
	"context"
	"log"
	"time"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
)

// TickRate is the number of updates per second.
const TickRate = 60

// Command is a control applied to the player between ticks.
type Command func(p *Player)

// Runner drives a Player from a ticker.
type Runner struct {
	Player *Player
	// Show receives every frame that needs displaying.
	Show func(Frame)
	// Reload reads the timeline again after a watched file changed.
	Reload func() (*clip.Timeline, error)
	// Watch lists files whose changes trigger Reload. With nothing to
	// watch, Run returns once playback stops.
	Watch    []string
	Interval time.Duration

	commands chan Command
}

func NewRunner(p *Player, show func(Frame)) *Runner {
	return &Runner{
		Player:   p,
		Show:     show,
		Interval: time.Second / TickRate,
		commands: make(chan Command, 8),
	}
}

// Do queues a control for the running loop.
func (r *Runner) Do(ctx context.Context, cmd Command) error {
	select {
	case r.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run plays until ctx is done or, when nothing is watched, until
// playback stops.
func (r *Runner) Run(ctx context.Context) error {
	var (
		events <-chan string
		errors <-chan error
	)
	if len(r.Watch) > 0 {
		w, err := NewWatcher(r.Watch...)
		if err != nil {
			return err
		}
		defer w.Close()
		events, errors = w.Events, w.Errors
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.show(r.Player.Advance(0))
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.show(r.Player.Advance(dt))

		case cmd := <-r.commands:
			cmd(r.Player)
			r.show(r.Player.Advance(0))

		case name, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			r.reload(name)
			last = time.Now()

		case err, ok := <-errors:
			if !ok {
				errors = nil
				continue
			}
			log.Printf("preview: watch: %v", err)
		}

		if events == nil && r.Player.State() == Stopped {
			return nil
		}
	}
}

func (r *Runner) reload(name string) {
	if r.Reload == nil {
		return
	}
	tl, err := r.Reload()
	if err != nil {
		log.Printf("preview: reload %s: %v", name, err)
		return
	}
	r.Player.Load(tl)
	r.show(r.Player.Advance(0))
}

func (r *Runner) show(f Frame, changed bool) {
	if changed && r.Show != nil {
		r.Show(f)
	}
}
