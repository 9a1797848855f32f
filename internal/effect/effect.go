// Package effect implements the render algorithms bound to surfaces: a
// closed set of concrete effect kinds dispatched through a tagged Config
// sum type, each satisfying the same render/update/base-config contract.
package effect

import (
	"fmt"
)

// AudioFrame carries the normalized [0,1] band energies effects react to.
type AudioFrame struct {
	Bands []float32
}

// BaseConfig holds the fields every effect shares: post-render
// mirror/flip/blur/background compositing. Gradient strings live on each
// effect's own config, not here.
type BaseConfig struct {
	Mirror     bool
	Flip       bool
	Blur       float32
	Background string // hex or rgb() color, applied additively post-render
}

// DefaultBaseConfig is the base config every simple (non-audio-reactive)
// effect starts from.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{Mirror: false, Flip: false, Blur: 0, Background: "#000000"}
}

// Effect is the runtime contract every concrete effect kind satisfies.
type Effect interface {
	// Render writes pixelCount*3 interleaved RGB bytes into out given the
	// current audio frame.
	Render(frame AudioFrame, out []byte)
	// UpdateConfig rebinds the effect's tunables from cfg. cfg must be the
	// same concrete Config kind the effect was created with.
	UpdateConfig(cfg Config) error
	// BaseConfig returns the shared compositing knobs bound to the effect.
	BaseConfig() BaseConfig
}

// Config is the tagged-union contract every effect's settings type
// satisfies: an EffectID identifying which concrete kind it configures, and
// the shared BaseConfig every effect carries alongside its own tunables.
type Config interface {
	EffectID() string
	Base() BaseConfig
}

// New constructs the concrete Effect for cfg's kind.
func New(cfg Config, pixelCount int) (Effect, error) {
	switch c := cfg.(type) {
	case BladePowerConfig:
		return newBladePower(c, pixelCount), nil
	case FireConfig:
		return newFire(c, pixelCount), nil
	case ScanConfig:
		return newScan(c, pixelCount), nil
	case RainbowConfig:
		return newRainbow(c), nil
	case ScrollConfig:
		return newScroll(c), nil
	case SolidScanConfig:
		return newSolidScan(c, pixelCount), nil
	default:
		return nil, fmt.Errorf("effect: unknown config kind %T", cfg)
	}
}

// BuiltInPresets returns the preset name -> Config map shipped for
// effectID, or nil if effectID has no built-in presets.
func BuiltInPresets(effectID string) map[string]Config {
	switch effectID {
	case "fire":
		return firePresets
	case "scan":
		return scanPresets
	default:
		return nil
	}
}

func errWrongConfigKind(effectID string, cfg Config) error {
	return fmt.Errorf("effect %s: update_config called with mismatched config type %T", effectID, cfg)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
