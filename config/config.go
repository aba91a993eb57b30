// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// struct for the viewer and the bridge.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cogentcore.org/xrviewer/base/iox"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultURL is the default address of the backend.
const DefaultURL = "ws://localhost:4567"

// Config is the main config struct that contains all of the
// configuration options for a viewer session.
type Config struct {

	// URL is the websocket address of the backend. A malformed address
	// falls back to [DefaultURL] when connecting.
	URL string `toml:"url" yaml:"url" json:"url"`

	// FOV is the initial vertical field of view in degrees.
	FOV float32 `toml:"fov" yaml:"fov" json:"fov"`

	// RenderType is the initial kind of image requested from the backend.
	RenderType state.RenderTypes `toml:"render_type" yaml:"render_type" json:"render_type"`

	// Resolution is the initial output resolution class.
	Resolution state.Resolutions `toml:"resolution" yaml:"resolution" json:"resolution"`

	// Width is the initial canvas width in pixels.
	Width int `toml:"width" yaml:"width" json:"width"`

	// Height is the initial canvas height in pixels.
	Height int `toml:"height" yaml:"height" json:"height"`

	// FPS is the frame rate of the frame loop.
	FPS int `toml:"fps" yaml:"fps" json:"fps"`

	// UploadDir is watched for camera calibration files, if set.
	UploadDir string `toml:"upload_dir" yaml:"upload_dir" json:"upload_dir"`

	// BodyMotion is a body-motion asset to load at startup, if set.
	BodyMotion string `toml:"body_motion" yaml:"body_motion" json:"body_motion"`

	// CameraModel is the model asset shown for each calibrated camera.
	CameraModel string `toml:"camera_model" yaml:"camera_model" json:"camera_model"`

	// SaveFrames is a directory that received render results are saved to, if set.
	SaveFrames string `toml:"save_frames" yaml:"save_frames" json:"save_frames"`

	// Verbose shows info log messages.
	Verbose bool `toml:"verbose" yaml:"verbose" json:"verbose"`

	// VeryVerbose shows debug log messages.
	VeryVerbose bool `toml:"very_verbose" yaml:"very_verbose" json:"very_verbose"`

	// Quiet only shows error log messages.
	Quiet bool `toml:"quiet" yaml:"quiet" json:"quiet"`
}

// Defaults sets the default values of the config.
func (c *Config) Defaults() {
	c.URL = DefaultURL
	c.FOV = state.DefaultFOV
	c.RenderType = state.RGB
	c.Resolution = state.Res720
	c.Width = 1920
	c.Height = 1080
	c.FPS = 60
	c.CameraModel = scene.CameraModel
}

// New returns a new config with default values.
func New() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Formats are the config file formats, by file extension.
var Formats = map[string]iox.DecoderFunc{
	".toml": iox.NewDecoderFunc(func(r io.Reader) *toml.Decoder { return toml.NewDecoder(r).DisallowUnknownFields() }),
	".yaml": iox.NewDecoderFunc(yaml.NewDecoder),
	".yml":  iox.NewDecoderFunc(yaml.NewDecoder),
	".json": iox.NewDecoderFunc(json.NewDecoder),
}

// Open reads the config from the given file on top of the defaults,
// using the format of its extension. A leading ~ is expanded to the
// home directory, as are those of the paths in the config.
func Open(filename string) (*Config, error) {
	c := New()
	if err := c.Open(filename); err != nil {
		return nil, err
	}
	return c, nil
}

// Open reads the given file into the config, using the format of its
// extension, and validates the result.
func (c *Config) Open(filename string) error {
	fn, err := homedir.Expand(filename)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(fn))
	df, ok := Formats[ext]
	if !ok {
		return fmt.Errorf("config: %s: unsupported format %q", filename, ext)
	}
	if err := iox.Open(c, fn, df); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %s: %w", filename, err)
	}
	if err := c.ExpandPaths(); err != nil {
		return err
	}
	return c.Validate()
}

// ExpandPaths expands a leading ~ in the paths of the config.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.UploadDir, &c.BodyMotion, &c.SaveFrames} {
		ep, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*p = ep
	}
	return nil
}

// Validate returns an error for a value the viewer cannot start with.
// Out of range field of view values are clamped by the store instead.
func (c *Config) Validate() error {
	if !c.RenderType.IsValid() {
		return fmt.Errorf("config: %w: render type %q", state.ErrInvalidValue, string(c.RenderType))
	}
	if !c.Resolution.IsValid() {
		return fmt.Errorf("config: %w: resolution %q", state.ErrInvalidValue, string(c.Resolution))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: %w: canvas size %dx%d", state.ErrInvalidValue, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: %w: fps %d", state.ErrInvalidValue, c.FPS)
	}
	return nil
}
