// Package config loads the optional CUE render configuration.
package config

import (
	"time"

	"github.com/flarebyte/clustermap/internal/layout"
	"github.com/flarebyte/clustermap/internal/render"
)

const (
	MinCanvasSize = 64
	MaxCanvasSize = 8192
)

// Render holds canvas and image map settings.
type Render struct {
	Width        int
	Height       int
	Title        string
	FullDocument bool
}

// Links holds the optional Lua link chunk.
type Links struct {
	Inline string
}

// LuaSandbox holds the sandbox limits for link scripts.
type LuaSandbox struct {
	TimeoutMs    int
	HasTimeoutMs bool
}

// Config is the validated render configuration.
type Config struct {
	ConfigVersion string
	Render        Render
	Links         Links
	Lua           LuaSandbox
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Render: Render{
			Width:  layout.DefaultWidth,
			Height: layout.DefaultHeight,
			Title:  render.DefaultTitle,
		},
	}
}

// LinkTimeout returns the per-object Lua timeout; zero means the default.
func (c Config) LinkTimeout() time.Duration {
	if !c.Lua.HasTimeoutMs {
		return 0
	}
	if c.Lua.TimeoutMs == 0 {
		return -1
	}
	return time.Duration(c.Lua.TimeoutMs) * time.Millisecond
}

// Load reads and validates a .cue config. Fields left out keep their Default
// values.
func Load(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	c := Default()
	if c.ConfigVersion, err = decodeConfigVersion(v); err != nil {
		return Config{}, err
	}
	if err := parseRenderSection(v, &c.Render); err != nil {
		return Config{}, err
	}
	if err := parseLinksSection(v, &c.Links); err != nil {
		return Config{}, err
	}
	if err := parseLuaSection(v, &c.Lua); err != nil {
		return Config{}, err
	}
	return c, nil
}
