package main

import (
	"gopkg.in/yaml.v2"

	"github.com/alacrity-engine/sprite-tool/internal/command"
)

// configFileName is looked up in the project root
// when no config file is given.
const configFileName = "spritetool.yml"

// ToolConfig is the tool configuration
// read from the YAML file.
type ToolConfig struct {
	Project       string  `yaml:"project"`
	Prefs         string  `yaml:"prefs"`
	FrameRate     float64 `yaml:"frameRate"`
	MinSeparators int     `yaml:"minSeparators"`
	Dialog        bool    `yaml:"dialog"`
	Manifest      *bool   `yaml:"manifest"`
	Controller    struct {
		Layout string `yaml:"layout"`
		Layer  int    `yaml:"layer"`
	} `yaml:"controller"`
	Preview struct {
		Speed float64 `yaml:"speed"`
		Loop  bool    `yaml:"loop"`
		Watch bool    `yaml:"watch"`
	} `yaml:"preview"`
}

// ReadToolConfig decodes the contents
// of a configuration file.
func ReadToolConfig(contents []byte) (*ToolConfig, error) {
	var toolConfig ToolConfig
	err := yaml.UnmarshalStrict(contents, &toolConfig)

	if err != nil {
		return nil, err
	}

	return &toolConfig, nil
}

// Apply overrides the command defaults
// with every value set in the file.
func (toolConfig *ToolConfig) Apply(cfg *command.Config) {
	if toolConfig.FrameRate > 0 {
		cfg.FrameRate = toolConfig.FrameRate
	}

	if toolConfig.MinSeparators > 0 {
		cfg.MinSeparators = toolConfig.MinSeparators
	}

	if toolConfig.Manifest != nil {
		cfg.Manifest = *toolConfig.Manifest
	}

	if toolConfig.Controller.Layout != "" {
		cfg.ControllerLayout = toolConfig.Controller.Layout
	}

	cfg.ControllerLayer = toolConfig.Controller.Layer

	if toolConfig.Preview.Speed > 0 {
		cfg.PreviewSpeed = toolConfig.Preview.Speed
	}

	cfg.PreviewLoop = toolConfig.Preview.Loop
	cfg.PreviewWatch = toolConfig.Preview.Watch
}
