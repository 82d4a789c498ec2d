package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the engine configuration loaded at startup.
type Settings struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	TickRate   int    `yaml:"tick_rate"`

	ResourcesDir string `yaml:"resources_dir"`
	SavesDir     string `yaml:"saves_dir"`

	World WorldSettings `yaml:"world"`
}

// WorldSettings names the initial world and its extent.
type WorldSettings struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns the settings used when no config file is available.
func Default() *Settings {
	return &Settings{
		Title:        "swift",
		Width:        1280,
		Height:       720,
		TickRate:     60,
		ResourcesDir: "data/resources",
		SavesDir:     "data/saves",
		World: WorldSettings{
			Name:   "town",
			Width:  1024,
			Height: 1024,
		},
	}
}

// Load reads settings from a yaml file, filling unset fields with
// defaults. A missing or unparseable file is an error; callers are
// expected to log it and continue with Default.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if settings.TickRate <= 0 {
		settings.TickRate = Default().TickRate
	}
	return settings, nil
}
