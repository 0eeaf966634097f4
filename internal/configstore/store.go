// Package configstore holds the render core's live configuration as an
// immutable snapshot behind an atomic pointer: every tick reads one
// snapshot reference and sees either entirely the old parameters or
// entirely the new ones, never a mix (spec §8: "at most one tick
// contains a mixture of old and new parameters").
// Ground: ledcube/internal/render/engine.go's SetRenderer/ArmNext/
// SetCrossfade field-swap idiom, generalized from one Engine's active/
// next renderer pair to a whole-document copy-on-write snapshot.
package configstore

import (
	"fmt"
	"sync/atomic"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/config"
	"github.com/coreman2200/ledcore/internal/coreerr"
	"github.com/coreman2200/ledcore/internal/group"
	"github.com/coreman2200/ledcore/internal/palette"
	"github.com/coreman2200/ledcore/internal/pattern"
)

// GlobalSettings is the data model's GlobalSettings tuple (spec §3).
type GlobalSettings struct {
	GlobalBrightness    float64
	GlobalSaturation    float64
	GlobalColorTemp     float64
	ChannelCorrectionRGB colormath.RGB
	UseWhiteChannel     bool
	RGBWAlgorithm       string // "legacy" | "advanced"
	WhiteLEDTemperature float64
	CalibrationMode     bool
	TargetFPS           int
}

// ArtNetSettings is the configuration-level subset of ArtNetState that
// comes from the document (the receiver owns the live last_packet part).
type ArtNetSettings struct {
	Enabled            bool
	Universe           int
	ChannelOffset      int
	LedsPerPixel       int
	FrameInterpolation string
	FrameInterpSize    int
	SpatialSmoothing   string
	SpatialSize        int
}

// TimeSyncSettings is the configuration-level subset of TimeSyncState.
type TimeSyncSettings struct {
	Enabled        bool
	MasterMode     bool
	BroadcastPeriodS float64
}

// Snapshot is one immutable, fully-resolved configuration view: every
// group, palette, and pattern a tick needs, plus global settings.
// Patterns is still a *pattern.Registry because patterns recompile
// in place (atomic per-pattern swap) independent of whole-document
// snapshot swaps; Groups and Palettes are rebuilt wholesale per Apply.
type Snapshot struct {
	LEDCount int
	Settings GlobalSettings
	ArtNet   ArtNetSettings
	TimeSync TimeSyncSettings
	Groups   []*group.Group
	Palettes map[string]*palette.Palette
	Patterns *pattern.Registry
}

// Store holds the current Snapshot behind an atomic pointer.
type Store struct {
	ptr atomic.Pointer[Snapshot]
}

// New returns a Store with no snapshot loaded.
func New() *Store { return &Store{} }

// Load returns the current snapshot, or nil if Apply has never succeeded.
func (s *Store) Load() *Snapshot { return s.ptr.Load() }

// Apply validates doc, builds a new Snapshot, and atomically installs it.
// On validation failure, the prior snapshot (if any) remains active and
// a *coreerr.Error is returned: kind PatternCompile when a function fails
// to compile, ConfigInvalid for every other failure.
// patterns is reused (and mutated in place via Register) across Applies
// so in-flight *Compiled pointers held by groups mid-tick stay valid.
func (s *Store) Apply(doc *config.Document, patterns *pattern.Registry) error {
	if doc.LEDCount <= 0 {
		return coreerr.Newf(coreerr.ConfigInvalid, "", "led_count must be positive, got %d", doc.LEDCount)
	}

	palettes := make(map[string]*palette.Palette, len(doc.Palettes))
	for id, rec := range doc.Palettes {
		stops := make([]palette.Stop, len(rec.Stops))
		for i, st := range rec.Stops {
			stops[i] = palette.Stop{Pos: st.Pos, Color: colormath.HSV{H: st.H, S: st.S, V: st.V}}
		}
		pal, err := palette.New(id, stops)
		if err != nil {
			return coreerr.New(coreerr.ConfigInvalid, id, err)
		}
		palettes[id] = pal
	}

	for id, rec := range doc.Functions {
		if err := patterns.Register(id, rec.Source); err != nil {
			return coreerr.New(coreerr.PatternCompile, id, err)
		}
	}

	groups := make([]*group.Group, 0, len(doc.Groups))
	for name, rec := range doc.Groups {
		g := &group.Group{
			Name: name, RangeStart: rec.RangeStart, RangeEnd: rec.RangeEnd,
			Brightness: rec.Brightness, Saturation: rec.Saturation,
			Speed: rec.Speed, Scale: rec.Scale,
			PatternID: rec.PatternID, PaletteID: rec.PaletteID,
			SinkBinding: rec.SinkBinding,
		}
		if err := g.Validate(doc.LEDCount); err != nil {
			return coreerr.New(coreerr.ConfigInvalid, name, err)
		}
		if _, ok := patterns.Get(g.PatternID); !ok {
			return coreerr.Newf(coreerr.ConfigInvalid, name, "unknown pattern_id %q", g.PatternID)
		}
		if g.PaletteID != "" {
			if _, ok := palettes[g.PaletteID]; !ok {
				return coreerr.Newf(coreerr.ConfigInvalid, name, "unknown palette_id %q", g.PaletteID)
			}
		}
		groups = append(groups, g)
	}
	if err := checkNoOverlap(groups); err != nil {
		return coreerr.New(coreerr.ConfigInvalid, "", err)
	}

	rgbwAlgo := doc.RGBWAlgorithm
	if rgbwAlgo == "" {
		rgbwAlgo = "legacy"
	}
	if rgbwAlgo != "legacy" && rgbwAlgo != "advanced" {
		return coreerr.Newf(coreerr.ConfigInvalid, "", "unknown rgbw_algorithm %q", rgbwAlgo)
	}

	snap := &Snapshot{
		LEDCount: doc.LEDCount,
		Settings: GlobalSettings{
			GlobalBrightness: doc.GlobalBrightness,
			GlobalSaturation: doc.GlobalSaturation,
			GlobalColorTemp:  doc.GlobalColorTemp,
			ChannelCorrectionRGB: colormath.RGB{
				R: float64(doc.GlobalColorR) / 255.0,
				G: float64(doc.GlobalColorG) / 255.0,
				B: float64(doc.GlobalColorB) / 255.0,
			},
			UseWhiteChannel:     doc.UseWhiteChannel,
			RGBWAlgorithm:       rgbwAlgo,
			WhiteLEDTemperature: doc.WhiteLEDTemperature,
			CalibrationMode:     doc.Calibration != 0,
			TargetFPS:           doc.TargetFPS,
		},
		ArtNet: ArtNetSettings{
			Enabled: doc.ArtNet.Enable, Universe: doc.ArtNet.Universe,
			ChannelOffset: doc.ArtNet.ChannelOffset, LedsPerPixel: maxInt(1, doc.ArtNet.GroupSize),
			FrameInterpolation: doc.ArtNet.FrameInterpolation, FrameInterpSize: doc.ArtNet.FrameInterpSize,
			SpatialSmoothing: doc.ArtNet.SpatialSmoothing, SpatialSize: doc.ArtNet.SpatialSize,
		},
		TimeSync: TimeSyncSettings{
			Enabled: doc.TimeSync.Enable, MasterMode: doc.TimeSync.MasterMode,
			BroadcastPeriodS: doc.TimeSync.IntervalSecs,
		},
		Groups:   groups,
		Palettes: palettes,
		Patterns: patterns,
	}
	s.ptr.Store(snap)
	return nil
}

func checkNoOverlap(groups []*group.Group) error {
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			if groups[i].Overlaps(groups[j]) {
				return fmt.Errorf("group %q overlaps group %q", groups[i].Name, groups[j].Name)
			}
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
