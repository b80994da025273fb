package command

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/autoclip"
	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/pack"
	"github.com/alacrity-engine/sprite-tool/internal/prefs"
)

const defaultResourceFile = "stage.res"

func init() {
	register(Command{
		Name:  "autoclip",
		Usage: "autoclip [-dir folder] [-fps n] [-min-separators n] [-loop] <texture>",
		Run:   runAutoclip,
	})
	register(Command{
		Name:  "pack",
		Usage: "pack [-out stage.res] [-texture-id id] [-tag tag] [-verify-texture] [-fps n] <texture>",
		Run:   runPack,
	})
}

func runAutoclip(_ context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("autoclip", flag.ContinueOnError)
	var (
		dir    string
		fps    float64
		minSep int
		loop   bool
	)
	fs.StringVar(&dir, "dir", "", "Folder inside Assets to create the clips in.")
	fs.Float64Var(&fps, "fps", 0, "Frame rate of the created clips.")
	fs.IntVar(&minSep, "min-separators", 0,
		"Underscores a sprite name needs to belong to a frame sequence.")
	fs.BoolVar(&loop, "loop", false, "Mark the created clips as looping.")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := env.selection(fs.Args(), assetdb.KindTexture)
	if err != nil {
		return err
	}
	s, err := env.sprites(a)
	if err != nil {
		return err
	}

	if dir == "" {
		start, err := env.Prefs.GetString(prefs.KeyAnimFolder, env.assetsDir())
		if err != nil {
			return err
		}
		if dir, err = env.Picker.Folder("Folder to save the clips in", start); err != nil {
			return err
		}
		if dir == "" {
			return &errs.SaveCancelledError{}
		}
	}
	folder, err := env.DB.AssetPath(dir)
	if err != nil {
		return err
	}
	if err := env.Prefs.SetString(prefs.KeyAnimFolder, env.DB.Abs(folder)); err != nil {
		return err
	}

	gr := env.grouper(fps, minSep)
	res, err := autoclip.Create(env.DB, s, folder, autoclip.Options{Grouper: gr, Loop: loop})
	if err != nil {
		return err
	}

	for _, key := range res.Rejected {
		ne := &errs.NameFormatError{Group: key, Names: gr.InvalidNames(s.Sprites, key)}
		env.Notifier.Error(ne.Title(), ne.Error()+", clip creation skipped")
	}

	env.Notifier.Info("Clips created", fmt.Sprintf(
		"created: %d\nskipped: %d\n\n[created]\n%s\n\n[skipped]\n%s",
		len(res.Created), len(res.Skipped), listOrNone(res.Created), listOrNone(res.Skipped)))
	return nil
}

func runPack(_ context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	var (
		out    string
		opts   pack.Options
		fps    float64
		minSep int
	)
	fs.StringVar(&out, "out", "", "Resource file to store the animations in.")
	fs.StringVar(&opts.TextureID, "texture-id", "",
		"Texture resource the frames belong to. Defaults to the texture file name.")
	fs.StringVar(&opts.Tag, "tag", "", "Tag listing the stored animations. Defaults to the texture ID.")
	fs.BoolVar(&opts.VerifyTexture, "verify-texture", false,
		"Fail unless the texture is already stored in the resource file.")
	fs.Float64Var(&fps, "fps", 0, "Frame rate the frame durations are derived from.")
	fs.IntVar(&minSep, "min-separators", 0,
		"Underscores a sprite name needs to belong to a frame sequence.")
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

	if out == "" {
		if out, err = env.Prefs.GetString(prefs.KeyPackOut, filepath.Join(env.DB.Root(), defaultResourceFile)); err != nil {
			return err
		}
	}
	if out, err = filepath.Abs(out); err != nil {
		return err
	}

	resourceFile, err := pack.Open(out)
	if err != nil {
		return err
	}
	defer resourceFile.Close()

	opts.Grouper = env.grouper(fps, minSep)
	res, err := pack.Write(resourceFile, s, opts)
	if err != nil {
		return err
	}
	if err := env.Prefs.SetString(prefs.KeyPackOut, out); err != nil {
		return err
	}

	for _, key := range res.Rejected {
		ne := &errs.NameFormatError{Group: key, Names: opts.Grouper.InvalidNames(s.Sprites, key)}
		env.Notifier.Error(ne.Title(), ne.Error()+", animation skipped")
	}
	env.Notifier.Info("Packed", fmt.Sprintf("%d animations of texture %q stored in %s under tag %q:\n%s",
		len(res.Animations), res.TextureID, out, res.Tag, listOrNone(res.Animations)))
	return nil
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "\n")
}
