package main

import (
	"testing"

	"github.com/alacrity-engine/sprite-tool/internal/command"
)

func TestReadToolConfig(t *testing.T) {
	contents := []byte(`
project: ../Game
frameRate: 24
minSeparators: 1
dialog: true
manifest: false
controller:
  layout: layered
  layer: 1
preview:
  speed: 2
  watch: true
`)

	toolConfig, err := ReadToolConfig(contents)
	if err != nil {
		t.Fatalf("ReadToolConfig: %v", err)
	}
	if toolConfig.Project != "../Game" || !toolConfig.Dialog {
		t.Fatalf("unexpected config %+v", toolConfig)
	}

	cfg := command.DefaultConfig()
	toolConfig.Apply(&cfg)

	want := command.Config{
		FrameRate:        24,
		MinSeparators:    1,
		Manifest:         false,
		ControllerLayout: command.LayoutLayered,
		ControllerLayer:  1,
		PreviewSpeed:     2,
		PreviewWatch:     true,
	}
	if cfg != want {
		t.Fatalf("got %+v\nwant %+v", cfg, want)
	}
}

func TestReadToolConfigKeepsDefaults(t *testing.T) {
	toolConfig, err := ReadToolConfig([]byte("prefs: /tmp/prefs.db\n"))
	if err != nil {
		t.Fatalf("ReadToolConfig: %v", err)
	}

	cfg := command.DefaultConfig()
	toolConfig.Apply(&cfg)

	if cfg != command.DefaultConfig() {
		t.Fatalf("empty config changed defaults: %+v", cfg)
	}
}

func TestReadToolConfigRejectsUnknownKeys(t *testing.T) {
	if _, err := ReadToolConfig([]byte("framerate: 12\n")); err == nil {
		t.Fatalf("expected an error for a misspelled key")
	}
}
