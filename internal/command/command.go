// Package command implements the tool's subcommands on top of a project
// asset database.
package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/export"
	"github.com/alacrity-engine/sprite-tool/internal/picker"
	"github.com/alacrity-engine/sprite-tool/internal/prefs"
	"github.com/alacrity-engine/sprite-tool/internal/sheet"
)

// Controller export layouts.
const (
	LayoutNested  = "nested"
	LayoutLayered = "layered"
)

// Config holds the defaults commands fall back to when a flag is unset.
type Config struct {
	FrameRate        float64
	MinSeparators    int
	Manifest         bool
	ControllerLayout string
	ControllerLayer  int
	PreviewSpeed     float64
	PreviewLoop      bool
	PreviewWatch     bool
}

func DefaultConfig() Config {
	return Config{
		FrameRate:        sheet.DefaultFrameRate,
		MinSeparators:    sheet.DefaultMinSeparators,
		Manifest:         true,
		ControllerLayout: LayoutNested,
		PreviewSpeed:     1,
	}
}

// Env is everything a command needs from the outside world.
type Env struct {
	DB       *assetdb.DB
	Prefs    prefs.Store
	Picker   picker.Picker
	Notifier picker.Notifier
	Config   Config

	In  io.Reader
	Out io.Writer
	Now func() time.Time
}

// Command is one subcommand.
type Command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context, env *Env, args []string) error
}

var commands = map[string]Command{}

func register(c Command) {
	commands[c.Name] = c
}

// Commands lists the subcommands by name.
func Commands() []Command {
	list := make([]Command, 0, len(commands))
	for _, c := range commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// UsageError is a malformed command line: a missing or unknown command,
// a flag the command does not accept or a bad flag value.
type UsageError struct {
	// Command is empty when no known command was named.
	Command string
	Err     error
}

func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return e.Command + ": " + e.Err.Error()
}

func (e *UsageError) Unwrap() error { return e.Err }

// Run executes the subcommand named by args[0].
func Run(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return &UsageError{Err: fmt.Errorf("no command given, expected one of: %s", names())}
	}
	c, ok := commands[args[0]]
	if !ok {
		return &UsageError{Err: fmt.Errorf("unknown command %q, expected one of: %s", args[0], names())}
	}
	return c.Run(ctx, env, args[1:])
}

// parseArgs parses the command flags. The flag set has already printed
// the problem and its defaults when this fails.
func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return &UsageError{Command: fs.Name(), Err: err}
	}
	return nil
}

func names() string {
	var s []string
	for _, c := range Commands() {
		s = append(s, c.Name)
	}
	return strings.Join(s, ", ")
}

func (env *Env) now() time.Time {
	if env.Now == nil {
		return time.Now()
	}
	return env.Now()
}

func (env *Env) grouper(fps float64, minSep int) sheet.Grouper {
	gr := sheet.Grouper{
		FrameRate:     env.Config.FrameRate,
		MinSeparators: env.Config.MinSeparators,
	}
	if fps > 0 {
		gr.FrameRate = fps
	}
	if minSep > 0 {
		gr.MinSeparators = minSep
	}
	return gr
}

// assetsDir is where dialogs start when nothing was remembered yet.
func (env *Env) assetsDir() string {
	return filepath.Join(env.DB.Root(), assetdb.AssetsDir)
}

// saveTarget picks the file an export is written to: the explicit out
// path, otherwise whatever the picker chooses starting from the folder
// remembered under key. The chosen folder is remembered again.
func (env *Env) saveTarget(key, out, title, defaultName string) (string, error) {
	var file string
	if out != "" {
		abs, err := filepath.Abs(out)
		if err != nil {
			return "", err
		}
		file = abs
	} else {
		start, err := env.Prefs.GetString(key, env.assetsDir())
		if err != nil {
			return "", err
		}
		file, err = env.Picker.SaveFile(picker.SaveRequest{
			Title:       title,
			StartDir:    start,
			DefaultName: defaultName,
			Ext:         "json",
		})
		if err != nil {
			return "", err
		}
		if file == "" {
			return "", &errs.SaveCancelledError{}
		}
	}

	if err := env.Prefs.SetString(key, filepath.Dir(file)); err != nil {
		return "", err
	}
	return file, nil
}

// save writes a fully built document and records it in the manifest.
func (env *Env) save(file, kind, source string, doc interface{}) error {
	if err := export.WriteJSON(file, doc); err != nil {
		return err
	}

	if env.Config.Manifest {
		dir := filepath.Dir(file)
		if prev, ok := export.Lookup(dir, filepath.Base(file)); ok && prev.Source != source {
			log.Printf("%s replaces an export of %s", file, prev.Source)
		}
		err := export.Record(dir, export.Entry{
			File:   filepath.Base(file),
			Kind:   kind,
			Source: source,
			Time:   env.now(),
		})
		if err != nil {
			return err
		}
	}

	env.Notifier.Info("Saved", "JSON saved:\n"+file)
	return nil
}

// selection resolves the single positional argument of a command.
func (env *Env) selection(args []string, kinds ...assetdb.Kind) (assetdb.Asset, error) {
	if len(args) > 1 {
		return assetdb.Asset{}, &errs.InvalidSelectionError{
			Reason: fmt.Sprintf("expected one asset, got %d", len(args)),
		}
	}
	sel := ""
	if len(args) == 1 {
		sel = args[0]
	}

	a, err := env.DB.Select(sel)
	if err != nil {
		return assetdb.Asset{}, err
	}
	if err := a.Require(kinds...); err != nil {
		return assetdb.Asset{}, err
	}
	return a, nil
}

// sprites loads the sliced sprites of a texture selection. A sprite
// selection must name one of them.
func (env *Env) sprites(a assetdb.Asset) (*sheet.Sheet, error) {
	s, err := env.DB.LoadSprites(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Kind != assetdb.KindSprite {
		return s, nil
	}
	for _, sp := range s.Sprites {
		if sp.Name == a.Sprite {
			return s, nil
		}
	}
	return nil, &errs.InvalidSelectionError{
		Path:   a.Path,
		Reason: fmt.Sprintf("the texture has no sprite named %q", a.Sprite),
	}
}

func baseName(assetPath string) string {
	b := filepath.Base(filepath.FromSlash(assetPath))
	return strings.TrimSuffix(b, filepath.Ext(b))
}
