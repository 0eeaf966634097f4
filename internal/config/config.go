// Package config loads and saves the YAML configuration document the
// render core consumes (never produces) at startup and on each operator
// edit.
// Ground: ledcube/internal/config/config.go Load/Save, generalized from a
// fixed-panel LED cube layout document to the render core's groups/
// palettes/functions/ArtNet/TimeSync document (spec §6).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GroupRecord is one entry of the groups map.
type GroupRecord struct {
	RangeStart  int     `yaml:"range_start"`
	RangeEnd    int     `yaml:"range_end"`
	Brightness  float64 `yaml:"brightness"`
	Saturation  float64 `yaml:"saturation"`
	Speed       float64 `yaml:"speed"`
	Scale       float64 `yaml:"scale"`
	PatternID   string  `yaml:"pattern_id"`
	PaletteID   string  `yaml:"palette_id"`
	SinkBinding string  `yaml:"sink_binding"`
}

// StopRecord is one HSV color stop of a palette.
type StopRecord struct {
	Pos float64 `yaml:"pos"`
	H   float64 `yaml:"h"`
	S   float64 `yaml:"s"`
	V   float64 `yaml:"v"`
}

// PaletteRecord is one entry of the palettes map.
type PaletteRecord struct {
	Stops []StopRecord `yaml:"stops"`
}

// FunctionRecord is one entry of the functions (patterns) map.
type FunctionRecord struct {
	Source string `yaml:"source"`
}

// ArtNetBlock mirrors the ArtNet/sACN configuration keys of §6.
type ArtNetBlock struct {
	Enable             bool `yaml:"enable_artnet"`
	Universe           int  `yaml:"artnet_universe"`
	ChannelOffset      int  `yaml:"artnet_channel_offset"`
	GroupSize          int  `yaml:"artnet_group_size"`
	FrameInterpolation string `yaml:"artnet_frame_interpolation"`
	FrameInterpSize    int  `yaml:"artnet_frame_interp_size"`
	SpatialSmoothing   string `yaml:"artnet_spatial_smoothing"`
	SpatialSize        int  `yaml:"artnet_spatial_size"`
}

// TimeSyncBlock mirrors the TimeSync configuration keys of §6.
type TimeSyncBlock struct {
	Enable       bool    `yaml:"enable_sync"`
	MasterMode   bool    `yaml:"sync_master_mode"`
	IntervalSecs float64 `yaml:"sync_interval"`
}

// Document is the root configuration object consumed by the render core.
type Document struct {
	GlobalBrightness   float64 `yaml:"global_brightness"`
	GlobalSaturation   float64 `yaml:"global_saturation"`
	GlobalColorTemp    float64 `yaml:"global_color_temp"`
	GlobalColorR       int     `yaml:"global_color_r"`
	GlobalColorG       int     `yaml:"global_color_g"`
	GlobalColorB       int     `yaml:"global_color_b"`
	UseWhiteChannel    bool    `yaml:"use_white_channel"`
	RGBWAlgorithm      string  `yaml:"rgbw_algorithm"`
	WhiteLEDTemperature float64 `yaml:"white_led_temperature"`
	Calibration        int     `yaml:"calibration"`
	TargetFPS          int     `yaml:"target_fps"`
	LEDCount           int     `yaml:"led_count"`

	Groups    map[string]GroupRecord    `yaml:"groups"`
	Palettes  map[string]PaletteRecord  `yaml:"palettes"`
	Functions map[string]FunctionRecord `yaml:"functions"`

	ArtNet   ArtNetBlock   `yaml:"artnet"`
	TimeSync TimeSyncBlock `yaml:"timesync"`
}

// Load reads and parses a YAML configuration document from path.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var d Document
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &d, nil
}

// Save marshals d as YAML and writes it to path.
func Save(path string, d *Document) error {
	b, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
