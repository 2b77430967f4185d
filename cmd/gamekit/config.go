package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/phanxgames/gamekit"
)

// gameConfig is the YAML file read by the run command.
type gameConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	ShowFPS       bool   `yaml:"showFPS"`
	Debug         bool   `yaml:"debug"`
	RecoverPanics bool   `yaml:"recoverPanics"`
	ScreenshotDir string `yaml:"screenshotDir"`

	Assets struct {
		Folder   string   `yaml:"folder"`
		Manifest string   `yaml:"manifest"`
		Fetch    []string `yaml:"fetch"`
	} `yaml:"assets"`

	// TileMap is a Tiled JSON map inside the asset folder, attached to
	// layer 0 once assets are loaded.
	TileMap string `yaml:"tilemap"`

	// Script is an input script played once the scene is set up.
	Script          string `yaml:"script"`
	ExitAfterScript bool   `yaml:"exitAfterScript"`

	// dir is the directory holding the config file; relative paths resolve
	// against it.
	dir string
}

func loadGameConfig(path string) (*gameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := &gameConfig{Width: 640, Height: 480}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("config %s: width and height must be positive", path)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

func (c *gameConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// runConfig maps the file onto the host config. The script is read here so
// a missing file fails before a window opens.
func (c *gameConfig) runConfig() (gamekit.RunConfig, error) {
	rc := gamekit.RunConfig{
		Title:           c.Title,
		Width:           c.Width,
		Height:          c.Height,
		ShowFPS:         c.ShowFPS,
		Debug:           c.Debug,
		RecoverPanics:   c.RecoverPanics,
		ScreenshotDir:   c.resolve(c.ScreenshotDir),
		ExitAfterScript: c.ExitAfterScript,
	}
	if c.Script != "" {
		data, err := os.ReadFile(c.resolve(c.Script))
		if err != nil {
			return rc, fmt.Errorf("failed to read script: %w", err)
		}
		rc.TestScript = data
	}
	return rc, nil
}
