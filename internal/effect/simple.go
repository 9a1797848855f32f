package effect

import "github.com/ledcore/ledengine/internal/gradient"

// RainbowConfig rotates a full-strip hue wheel over time.
type RainbowConfig struct {
	Speed      float32 // degrees/tick, default 2.0
	Saturation float32 // 0..1, default 1.0
	Brightness float32 // 0..1, default 1.0
	BaseConfig BaseConfig
}

func (c RainbowConfig) EffectID() string { return "rainbow" }
func (c RainbowConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultRainbowConfig mirrors the original's get_schema() defaults.
func DefaultRainbowConfig() RainbowConfig {
	return RainbowConfig{Speed: 2.0, Saturation: 1.0, Brightness: 1.0, BaseConfig: DefaultBaseConfig()}
}

type rainbow struct {
	cfg RainbowConfig
	hue float32
}

func newRainbow(cfg RainbowConfig) *rainbow {
	return &rainbow{cfg: cfg}
}

func (e *rainbow) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *rainbow) UpdateConfig(cfg Config) error {
	c, ok := cfg.(RainbowConfig)
	if !ok {
		return errWrongConfigKind("rainbow", cfg)
	}
	e.cfg = c
	return nil
}

func (e *rainbow) Render(frame AudioFrame, out []byte) {
	pixelCount := len(out) / 3
	if pixelCount == 0 {
		return
	}
	e.hue += e.cfg.Speed
	for e.hue >= 360 {
		e.hue -= 360
	}
	c := gradient.HSVToRGB(e.hue, e.cfg.Saturation, e.cfg.Brightness)
	for i := 0; i < pixelCount; i++ {
		out[i*3+0] = c[0]
		out[i*3+1] = c[1]
		out[i*3+2] = c[2]
	}
}

// ScrollConfig scrolls a hue gradient spatially across the strip.
type ScrollConfig struct {
	Speed      float32 // degrees of hue per pixel (spatial step), default 4.0
	Saturation float32
	Brightness float32
	BaseConfig BaseConfig
}

func (c ScrollConfig) EffectID() string { return "scroll" }
func (c ScrollConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultScrollConfig mirrors the original's get_schema() defaults.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{Speed: 4.0, Saturation: 1.0, Brightness: 1.0, BaseConfig: DefaultBaseConfig()}
}

type scroll struct {
	cfg    ScrollConfig
	offset float32
}

func newScroll(cfg ScrollConfig) *scroll {
	return &scroll{cfg: cfg}
}

func (e *scroll) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *scroll) UpdateConfig(cfg Config) error {
	c, ok := cfg.(ScrollConfig)
	if !ok {
		return errWrongConfigKind("scroll", cfg)
	}
	e.cfg = c
	return nil
}

func (e *scroll) Render(frame AudioFrame, out []byte) {
	pixelCount := len(out) / 3
	if pixelCount == 0 {
		return
	}
	e.offset += 1.0
	for i := 0; i < pixelCount; i++ {
		hue := e.offset*1.0 + float32(i)*e.cfg.Speed
		for hue >= 360 {
			hue -= 360
		}
		c := gradient.HSVToRGB(hue, e.cfg.Saturation, e.cfg.Brightness)
		out[i*3+0] = c[0]
		out[i*3+1] = c[1]
		out[i*3+2] = c[2]
	}
}

// SolidScanConfig sweeps a single lit pixel with a fixed color back and
// forth across the strip (a minimal variant of the Scan effect with a
// single flat color instead of a gradient).
type SolidScanConfig struct {
	Speed      float32
	Color      string
	BaseConfig BaseConfig
}

func (c SolidScanConfig) EffectID() string { return "solid_scan" }
func (c SolidScanConfig) Base() BaseConfig { return c.BaseConfig }

// DefaultSolidScanConfig mirrors the original's get_schema() defaults.
func DefaultSolidScanConfig() SolidScanConfig {
	return SolidScanConfig{Speed: 0.5, Color: "#ffffff", BaseConfig: DefaultBaseConfig()}
}

type solidScan struct {
	cfg     SolidScanConfig
	color   gradient.RGB
	pos     float32
	forward bool
}

func newSolidScan(cfg SolidScanConfig, pixelCount int) *solidScan {
	e := &solidScan{cfg: cfg, forward: true}
	e.rebuildColor()
	return e
}

func (e *solidScan) rebuildColor() {
	pal := gradient.Parse(e.cfg.Color, 1, gradient.SpaceRGB)
	if len(pal) > 0 {
		e.color = pal[0]
	}
}

func (e *solidScan) BaseConfig() BaseConfig { return e.cfg.BaseConfig }

func (e *solidScan) UpdateConfig(cfg Config) error {
	c, ok := cfg.(SolidScanConfig)
	if !ok {
		return errWrongConfigKind("solid_scan", cfg)
	}
	e.cfg = c
	e.rebuildColor()
	return nil
}

func (e *solidScan) Render(frame AudioFrame, out []byte) {
	pixelCount := len(out) / 3
	if pixelCount == 0 {
		return
	}
	if e.forward {
		e.pos += e.cfg.Speed
	} else {
		e.pos -= e.cfg.Speed
	}
	maxPos := float32(pixelCount - 1)
	if e.pos >= maxPos {
		e.pos = maxPos
		e.forward = false
	} else if e.pos <= 0 {
		e.pos = 0
		e.forward = true
	}

	for i := 0; i < pixelCount; i++ {
		out[i*3+0] = 0
		out[i*3+1] = 0
		out[i*3+2] = 0
	}
	idx := int(e.pos)
	if idx >= 0 && idx < pixelCount {
		out[idx*3+0] = e.color[0]
		out[idx*3+1] = e.color[1]
		out[idx*3+2] = e.color[2]
	}
}
