package effect

import (
	"github.com/ledcore/ledengine/internal/gradient"
)

// ScanConfig tunes a fixed-width color band sweeping back and forth.
type ScanConfig struct {
	Speed      float32 // pixels/tick, default 0.5
	Width      int     // band width in pixels, default 3
	Gradient   string
	BaseConfig BaseConfig
}

func (c ScanConfig) EffectID() string { return "scan" }
func (c ScanConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultScanConfig mirrors the original's get_schema() defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Speed:      0.5,
		Width:      3,
		Gradient:   "linear-gradient(90deg, #ff0000 0%, #00ff00 50%, #0000ff 100%)",
		BaseConfig: DefaultBaseConfig(),
	}
}

type scan struct {
	cfg      ScanConfig
	palette  []gradient.RGB
	pos      float32
	forward  bool
}

func newScan(cfg ScanConfig, pixelCount int) *scan {
	e := &scan{cfg: cfg, forward: true}
	e.rebuildPalette(pixelCount)
	return e
}

func (e *scan) rebuildPalette(pixelCount int) {
	e.palette = gradient.Parse(e.cfg.Gradient, pixelCount, gradient.SpaceRGB)
}

func (e *scan) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *scan) UpdateConfig(cfg Config) error {
	c, ok := cfg.(ScanConfig)
	if !ok {
		return errWrongConfigKind("scan", cfg)
	}
	e.cfg = c
	e.rebuildPalette(len(e.palette))
	return nil
}

func (e *scan) Render(frame AudioFrame, out []byte) {
	pixelCount := len(out) / 3
	if pixelCount == 0 {
		return
	}

	if e.forward {
		e.pos += e.cfg.Speed
	} else {
		e.pos -= e.cfg.Speed
	}
	maxPos := float32(pixelCount - e.cfg.Width)
	if maxPos < 0 {
		maxPos = 0
	}
	if e.pos >= maxPos {
		e.pos = maxPos
		e.forward = false
	} else if e.pos <= 0 {
		e.pos = 0
		e.forward = true
	}

	center := int(e.pos)
	for i := 0; i < pixelCount; i++ {
		out[i*3+0] = 0
		out[i*3+1] = 0
		out[i*3+2] = 0
	}
	for i := center; i < center+e.cfg.Width && i < pixelCount; i++ {
		if i < 0 || len(e.palette) == 0 {
			continue
		}
		c := e.palette[i%len(e.palette)]
		out[i*3+0] = c[0]
		out[i*3+1] = c[1]
		out[i*3+2] = c[2]
	}
}
