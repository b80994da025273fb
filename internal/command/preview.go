package command

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/preview"
)

func init() {
	register(Command{
		Name:  "preview",
		Usage: "preview [-speed x] [-loop] [-watch] <clip.anim>",
		Run:   runPreview,
	})
}

func runPreview(ctx context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var (
		speed float64
		loop  bool
		watch bool
	)
	fs.Float64Var(&speed, "speed", env.Config.PreviewSpeed, "Playback speed, from 0.1 to 3.")
	fs.BoolVar(&loop, "loop", env.Config.PreviewLoop, "Loop even if the clip does not.")
	fs.BoolVar(&watch, "watch", env.Config.PreviewWatch, "Reload the clip when its file changes.")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := env.selection(fs.Args(), assetdb.KindClip)
	if err != nil {
		return err
	}
	c, err := env.DB.LoadClip(a.Path)
	if err != nil {
		return err
	}
	tl, err := clip.NewTimeline(c, a.Path, env.DB)
	if err != nil {
		return err
	}

	p := preview.NewPlayer(tl)
	p.SetSpeed(speed)
	p.SetLoop(loop)

	out := env.Out
	if out == nil {
		out = io.Discard
	}
	r := preview.NewRunner(p, func(f preview.Frame) {
		fmt.Fprintf(out, "%7.3fs  frame %d  %-24s %s\n", f.Time, f.Index, f.Sprite, f.State)
	})
	if watch {
		r.Watch = []string{env.DB.Abs(a.Path)}
		r.Reload = func() (*clip.Timeline, error) {
			c, err := env.DB.ReloadClip(a.Path)
			if err != nil {
				return nil, err
			}
			return clip.NewTimeline(c, a.Path, env.DB)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if env.In != nil {
		go readControls(ctx, env.In, r, cancel)
	}

	err = r.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// readControls turns input lines into player controls until the input
// ends or "quit" is read.
func readControls(ctx context.Context, in io.Reader, r *preview.Runner, quit func()) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "q" {
			quit()
			return
		}

		cmd, err := ParseControl(line)
		if err != nil {
			log.Printf("preview: %v", err)
			continue
		}
		if err := r.Do(ctx, cmd); err != nil {
			return
		}
	}
}

// ParseControl reads one control line: play, pause, stop, seek <t>,
// speed <x> or loop on|off.
func ParseControl(line string) (preview.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty control")
	}

	arg := func() (string, error) {
		if len(fields) != 2 {
			return "", fmt.Errorf("%s takes one argument", fields[0])
		}
		return fields[1], nil
	}
	number := func() (float64, error) {
		s, err := arg()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", fields[0], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%s: %q is not a finite number", fields[0], s)
		}
		return v, nil
	}

	switch fields[0] {
	case "play", "p":
		return (*preview.Player).Play, nil
	case "pause":
		return (*preview.Player).Pause, nil
	case "stop", "s":
		return (*preview.Player).Stop, nil
	case "seek":
		t, err := number()
		if err != nil {
			return nil, err
		}
		return func(p *preview.Player) { p.Seek(t) }, nil
	case "speed":
		v, err := number()
		if err != nil {
			return nil, err
		}
		return func(p *preview.Player) { p.SetSpeed(v) }, nil
	case "loop":
		s, err := arg()
		if err != nil {
			return nil, err
		}
		switch s {
		case "on":
			return func(p *preview.Player) { p.SetLoop(true) }, nil
		case "off":
			return func(p *preview.Player) { p.SetLoop(false) }, nil
		}
		return nil, fmt.Errorf("loop: expected on or off, got %q", s)
	}
	return nil, fmt.Errorf("unknown control %q", fields[0])
}
