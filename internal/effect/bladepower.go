package effect

import (
	"github.com/ledcore/ledengine/internal/dsp"
	"github.com/ledcore/ledengine/internal/gradient"
)

// FrequencyRange selects which coarse band BladePower's bar level reacts to.
type FrequencyRange int

const (
	FreqLows FrequencyRange = iota // "Lows (beat+bass)"
	FreqMids
	FreqHighs
)

// BladePowerConfig tunes the VU-style decaying bar effect.
type BladePowerConfig struct {
	Decay          float32 // 0..1, default 0.7
	Multiplier     float32 // 0..1, default 0.5
	FrequencyRange FrequencyRange
	Gradient       string
	BaseConfig     BaseConfig
}

func (c BladePowerConfig) EffectID() string { return "blade_power" }
func (c BladePowerConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultBladePowerConfig mirrors the original's get_schema() defaults.
func DefaultBladePowerConfig() BladePowerConfig {
	return BladePowerConfig{
		Decay:          0.7,
		Multiplier:     0.5,
		FrequencyRange: FreqLows,
		Gradient:       "linear-gradient(90deg, #ff0000 0%, #0000ff 100%)",
		BaseConfig:     DefaultBaseConfig(),
	}
}

type bladePower struct {
	cfg      BladePowerConfig
	palette  []gradient.RGB
	vChannel []float32
}

func newBladePower(cfg BladePowerConfig, pixelCount int) *bladePower {
	e := &bladePower{cfg: cfg, vChannel: make([]float32, pixelCount)}
	e.rebuildPalette(pixelCount)
	return e
}

func (e *bladePower) rebuildPalette(pixelCount int) {
	e.palette = gradient.Parse(e.cfg.Gradient, pixelCount, gradient.SpaceRGB)
}

func (e *bladePower) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *bladePower) UpdateConfig(cfg Config) error {
	c, ok := cfg.(BladePowerConfig)
	if !ok {
		return errWrongConfigKind("blade_power", cfg)
	}
	e.cfg = c
	e.rebuildPalette(len(e.vChannel))
	return nil
}

func (e *bladePower) Render(frame AudioFrame, out []byte) {
	pixelCount := len(e.vChannel)
	if pixelCount == 0 {
		return
	}
	var power float32
	switch e.cfg.FrequencyRange {
	case FreqMids:
		power = dsp.MidsPower(frame.Bands)
	case FreqHighs:
		power = dsp.HighsPower(frame.Bands)
	default:
		power = dsp.LowsPower(frame.Bands)
	}

	barLevel := clamp01(power * e.cfg.Multiplier * 2.0)
	barIdx := int(barLevel * float32(pixelCount))
	if barIdx > pixelCount {
		barIdx = pixelCount
	}

	decayFactor := e.cfg.Decay/2.0 + 0.45
	for i := range e.vChannel {
		e.vChannel[i] *= decayFactor
	}
	for i := 0; i < barIdx; i++ {
		e.vChannel[i] = 1.0
	}

	for i := 0; i < pixelCount && i*3+2 < len(out); i++ {
		c := e.palette[i%len(e.palette)]
		brightness := e.vChannel[i]
		out[i*3+0] = scale(c[0], brightness)
		out[i*3+1] = scale(c[1], brightness)
		out[i*3+2] = scale(c[2], brightness)
	}
}

func scale(ch uint8, brightness float32) byte {
	v := float32(ch) * brightness
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return byte(v)
}
