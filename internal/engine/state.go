// Package engine owns the render tick loop and the command/request mailboxes
// that give external callers the only way to observe or mutate engine state.
package engine

import "github.com/ledcore/ledengine/internal/effect"

// Device is one physically addressed LED strip reachable over DDP.
type Device struct {
	IP         string
	Name       string
	PixelCount int
}

// Cell maps one logical pixel of a Surface's matrix onto a physical device
// pixel.
type Cell struct {
	DeviceIP string
	Pixel    int
}

// Surface is a named rectangular arrangement of cells bound to one effect.
// IsDevice, when non-empty, names the device this surface passes straight
// through ("device_<ip>" surfaces created by AddDevice).
type Surface struct {
	ID       string
	Name     string
	Matrix   [][]*Cell
	IsDevice string
}

// Width reports the surface's pixel-per-row count.
func (s Surface) Width() int {
	if len(s.Matrix) == 0 {
		return 0
	}
	return len(s.Matrix[0])
}

// Height reports the surface's row count.
func (s Surface) Height() int { return len(s.Matrix) }

// PixelCount is the total addressable pixel count across the matrix: the
// number of non-empty cells.
func (s Surface) PixelCount() int {
	n := 0
	for _, row := range s.Matrix {
		for _, cell := range row {
			if cell != nil {
				n++
			}
		}
	}
	return n
}

// DSPSettings tunes the whole audio processing pipeline. FFTSize through
// TargetSampleRate are critical: changing any of them forces the
// processing context to rebuild its filterbank. The rest are live and take
// effect on the next processed window.
type DSPSettings struct {
	FFTSize          int
	NumBands         int
	MinFreq          float32
	MaxFreq          float32
	FilterbankType   string
	TargetSampleRate int // 0 = no resampling

	SmoothingFactor float32
	AGCAttack       float32
	AGCDecay        float32
	AudioDelayMS    int
}

// DefaultDSPSettings mirrors the original audio pipeline's defaults.
func DefaultDSPSettings() DSPSettings {
	return DSPSettings{
		FFTSize:        1024,
		NumBands:       128,
		MinFreq:        20,
		MaxFreq:        20000,
		FilterbankType: "balanced",

		SmoothingFactor: 0.4,
		AGCAttack:       0.01,
		AGCDecay:        0.1,
	}
}

// Preset maps an effect ID to its named presets.
type Preset map[string]map[string]effect.Config

// SceneEffect is either a literal effect config or a reference to a named
// preset (built-in or user-saved) resolved at scene activation time.
type SceneEffect struct {
	Literal    effect.Config
	EffectID   string
	PresetName string
}

// IsReference reports whether this SceneEffect names a preset rather than
// carrying a literal config.
func (s SceneEffect) IsReference() bool { return s.Literal == nil && s.PresetName != "" }

// Scene binds a set of surfaces to effects (literal or preset-referenced) to
// be applied atomically on activation.
type Scene struct {
	ID             string
	Name           string
	SurfaceEffects map[string]SceneEffect
}

// PlaybackState reports whether the tick loop is currently rendering.
type PlaybackState struct {
	Paused    bool
	TargetFPS int
}

// EngineStateSnapshot is the full persisted state: devices, surfaces, DSP
// settings, presets, scenes and the API port. Which effect is bound to each
// surface, and its live phase (vChannel/heat/pos), are not persisted, so a
// restart comes up with no effects bound.
type EngineStateSnapshot struct {
	Devices     map[string]Device
	Surfaces    map[string]Surface
	DSPSettings DSPSettings
	Presets     Preset
	Scenes      map[string]Scene
	APIPort     int
}

func newEngineStateSnapshot() EngineStateSnapshot {
	return EngineStateSnapshot{
		Devices:     make(map[string]Device),
		Surfaces:    make(map[string]Surface),
		DSPSettings: DefaultDSPSettings(),
		Presets:     make(Preset),
		Scenes:      make(map[string]Scene),
		APIPort:     8080,
	}
}
