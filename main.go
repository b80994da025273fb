package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/command"
	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/picker"
	"github.com/alacrity-engine/sprite-tool/internal/prefs"
)

var (
	projectPath string
	configPath  string
	prefsPath   string
	useDialog   bool
	noPrefs     bool
)

func parseFlags() {
	flag.StringVar(&projectPath, "project", ".",
		"Path to the project directory containing the Assets folder.")
	flag.StringVar(&configPath, "config", "",
		"Path to the tool configuration file. Defaults to "+configFileName+" in the project.")
	flag.StringVar(&prefsPath, "prefs", "",
		"Path to the file where remembered folders are stored.")
	flag.BoolVar(&useDialog, "dialog", false,
		"Ask for save locations with native dialogs.")
	flag.BoolVar(&noPrefs, "no-prefs", false,
		"Do not remember folders between runs.")

	flag.Usage = usage
	flag.Parse()
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [command flags] <asset>\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, c := range command.Commands() {
		fmt.Fprintf(out, "  %s\n", c.Usage)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("spritetool: ")

	parseFlags()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	// Read the configuration.
	toolConfig, err := readConfig()
	handleError(err)

	cfg := command.DefaultConfig()
	toolConfig.Apply(&cfg)

	// Open the project.
	db, err := assetdb.Open(projectPath)
	handleError(err)

	// Open the preferences.
	store := openPrefs(toolConfig)

	env := &command.Env{
		DB:       db,
		Prefs:    store,
		Picker:   picker.Default{},
		Notifier: picker.Log{},
		Config:   cfg,
		In:       os.Stdin,
		Out:      os.Stdout,
	}

	if useDialog || toolConfig.Dialog {
		if p, n, ok := picker.Native(); ok {
			env.Picker, env.Notifier = p, n
		} else {
			log.Println("native dialogs are not available in this build")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = command.Run(ctx, env, flag.Args())
	stop()
	store.Close()

	if ue, ok := errs.AsUser(err); ok {
		env.Notifier.Error(ue.Title(), ue.Error())
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}

	var usageErr *command.UsageError

	if errors.As(err, &usageErr) {
		log.Println(usageErr)

		if usageErr.Command == "" {
			usage()
		}

		os.Exit(2)
	}

	handleError(err)
}

// readConfig reads the explicitly given configuration file
// or the one found in the project, if any.
func readConfig() (*ToolConfig, error) {
	explicit := configPath != ""
	path := configPath

	if !explicit {
		path = filepath.Join(projectPath, configFileName)
	}

	contents, err := os.ReadFile(path)

	if os.IsNotExist(err) && !explicit {
		return &ToolConfig{}, nil
	}

	if err != nil {
		return nil, err
	}

	toolConfig, err := ReadToolConfig(contents)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// The project flag wins over the file.
	projectSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "project" {
			projectSet = true
		}
	})

	if toolConfig.Project != "" && !projectSet {
		projectPath = toolConfig.Project

		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(filepath.Dir(path), projectPath)
		}
	}

	return toolConfig, nil
}

func openPrefs(toolConfig *ToolConfig) prefs.Store {
	if noPrefs {
		return prefs.Memory{}
	}

	path := prefsPath

	if path == "" {
		path = toolConfig.Prefs
	}

	if path == "" {
		path = prefs.DefaultPath()
	}

	store, err := prefs.Open(path)

	if err != nil {
		log.Printf("preferences unavailable, folders will not be remembered: %v", err)
		return prefs.Memory{}
	}

	return store
}

func handleError(err error) {
	if err != nil {
		panic(err)
	}
}
