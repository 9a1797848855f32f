package effect

import (
	"math/rand"

	"github.com/ledcore/ledengine/internal/gradient"
)

// FireConfig tunes the cooling/sparking heat-diffusion simulation.
type FireConfig struct {
	Cooling    float32 // 20..100, default 55
	Sparking   float32 // 50..200, default 120
	Gradient   string
	BaseConfig BaseConfig
}

func (c FireConfig) EffectID() string { return "fire" }
func (c FireConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultFireConfig mirrors the original's get_schema() defaults.
func DefaultFireConfig() FireConfig {
	return FireConfig{
		Cooling:    55,
		Sparking:   120,
		Gradient:   "linear-gradient(90deg, #000000 0%, #ff0000 50%, #ffff00 100%)",
		BaseConfig: DefaultBaseConfig(),
	}
}

type fire struct {
	cfg     FireConfig
	palette []gradient.RGB // size 256
	heat    []byte
}

func newFire(cfg FireConfig, pixelCount int) *fire {
	e := &fire{cfg: cfg, heat: make([]byte, pixelCount)}
	e.rebuildPalette()
	return e
}

func (e *fire) rebuildPalette() {
	e.palette = gradient.Parse(e.cfg.Gradient, 256, gradient.SpaceRGB)
}

func (e *fire) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *fire) UpdateConfig(cfg Config) error {
	c, ok := cfg.(FireConfig)
	if !ok {
		return errWrongConfigKind("fire", cfg)
	}
	e.cfg = c
	e.rebuildPalette()
	return nil
}

func (e *fire) Render(frame AudioFrame, out []byte) {
	pixelCount := len(e.heat)
	if pixelCount == 0 {
		return
	}

	cooldownScale := e.cfg.Cooling*10.0/float32(pixelCount) + 2.0
	for i := range e.heat {
		cooldown := byte(rand.Float32() * cooldownScale)
		if cooldown > e.heat[i] {
			e.heat[i] = 0
		} else {
			e.heat[i] -= cooldown
		}
	}

	for i := pixelCount - 1; i >= 3; i-- {
		e.heat[i] = byte((int(e.heat[i-1]) + int(e.heat[i-2]) + int(e.heat[i-2])) / 3)
	}

	spark := rand.Float32() * 255.0 * e.cfg.Sparking / 255.0
	if spark > float32(e.heat[0]) {
		e.heat[0] = byte(clampFloat(spark, 0, 255))
	}

	for i := 0; i < pixelCount && i*3+2 < len(out); i++ {
		c := e.palette[e.heat[i]]
		out[i*3+0] = c[0]
		out[i*3+1] = c[1]
		out[i*3+2] = c[2]
	}
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
