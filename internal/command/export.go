package command

import (
	"context"
	"flag"
	"fmt"

	"github.com/alacrity-engine/sprite-tool/internal/animator"
	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/prefs"
)

func init() {
	register(Command{
		Name:  "sheet",
		Usage: "sheet [-out file] <texture or texture#sprite>",
		Run:   runSheet,
	})
	register(Command{
		Name:  "clip",
		Usage: "clip [-out file] <clip.anim>",
		Run:   runClip,
	})
	register(Command{
		Name:  "controller",
		Usage: "controller [-out file] [-layout nested|layered] [-layer n] <file.controller>",
		Run:   runController,
	})
}

func runSheet(_ context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	var out string
	fs.StringVar(&out, "out", "", "File to write the sprite sheet JSON to.")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := env.selection(fs.Args(), assetdb.KindTexture, assetdb.KindSprite)
	if err != nil {
		return err
	}
	s, err := env.sprites(a)
	if err != nil {
		return err
	}
	doc := s.Document()

	file, err := env.saveTarget(prefs.KeySheetSavePath, out,
		"Save sprite sheet JSON", baseName(a.Path)+"_sprites")
	if err != nil {
		return err
	}
	return env.save(file, "sheet", a.Path, doc)
}

func runClip(_ context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("clip", flag.ContinueOnError)
	var out string
	fs.StringVar(&out, "out", "", "File to write the animation clip JSON to.")
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
	doc, err := clip.Export(c, a.Path, env.DB)
	if err != nil {
		return err
	}

	file, err := env.saveTarget(prefs.KeyClipSavePath, out,
		"Save animation clip JSON", c.Name+"_AniClip.json")
	if err != nil {
		return err
	}
	return env.save(file, "clip", a.Path, doc)
}

func runController(_ context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("controller", flag.ContinueOnError)
	var (
		out    string
		layout string
		layer  int
	)
	fs.StringVar(&out, "out", "", "File to write the animator controller JSON to.")
	fs.StringVar(&layout, "layout", env.Config.ControllerLayout,
		"Document layout: nested (one layer, conditions grouped per transition) or layered (every layer, one row per condition).")
	fs.IntVar(&layer, "layer", env.Config.ControllerLayer, "Layer exported by the nested layout.")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := env.selection(fs.Args(), assetdb.KindController)
	if err != nil {
		return err
	}
	ctrl, err := env.DB.LoadController(a.Path)
	if err != nil {
		return err
	}

	var doc interface{}
	switch layout {
	case LayoutNested, "":
		doc, err = animator.Flatten(ctrl, layer)
	case LayoutLayered:
		doc, err = animator.FlattenLayers(ctrl)
	default:
		return &UsageError{
			Command: "controller",
			Err:     fmt.Errorf("unknown layout %q, expected %s or %s", layout, LayoutNested, LayoutLayered),
		}
	}
	if err != nil {
		return err
	}

	file, err := env.saveTarget(prefs.KeyControllerSavePath, out,
		"Save animator controller JSON", ctrl.Name+"_AnimController.json")
	if err != nil {
		return err
	}
	return env.save(file, "controller", a.Path, doc)
}
