package engine

import (
	"github.com/ledcore/ledengine/internal/dsp"
	"github.com/ledcore/ledengine/internal/effect"
	"github.com/ledcore/ledengine/internal/gradient"
)

// surfaceRenderState holds the per-surface float channels that blur and
// mirror/flip compositing work on. They are reused across ticks to avoid
// reallocating; every tick overwrites them from the effect's fresh output.
type surfaceRenderState struct {
	r, g, b []float32
}

func newSurfaceRenderState(pixelCount int) *surfaceRenderState {
	return &surfaceRenderState{r: make([]float32, pixelCount), g: make([]float32, pixelCount), b: make([]float32, pixelCount)}
}

// renderSurface runs one surface's bound effect, applies blur and
// mirror/flip compositing, adds the parsed background color, and returns
// the final interleaved RGB frame.
func renderSurface(eff effect.Effect, state *surfaceRenderState, frame effect.AudioFrame, pixelCount int) []byte {
	out := make([]byte, pixelCount*3)
	eff.Render(frame, out)

	for i := 0; i < pixelCount; i++ {
		state.r[i] = float32(out[i*3])
		state.g[i] = float32(out[i*3+1])
		state.b[i] = float32(out[i*3+2])
	}

	base := eff.BaseConfig()
	if base.Blur > 0 {
		dsp.GaussianBlur1D(state.r, base.Blur)
		dsp.GaussianBlur1D(state.g, base.Blur)
		dsp.GaussianBlur1D(state.b, base.Blur)
	}

	applyMirrorFlip(state, base.Mirror, base.Flip, pixelCount)

	bg := gradient.RGB{0, 0, 0}
	if pal := gradient.Parse(base.Background, 1, gradient.SpaceRGB); len(pal) > 0 {
		bg = pal[0]
	}
	for i := 0; i < pixelCount; i++ {
		out[i*3+0] = saturatingAdd(uint8(state.r[i]), bg[0])
		out[i*3+1] = saturatingAdd(uint8(state.g[i]), bg[1])
		out[i*3+2] = saturatingAdd(uint8(state.b[i]), bg[2])
	}
	return out
}

func applyMirrorFlip(state *surfaceRenderState, mirror, flip bool, pixelCount int) {
	if !mirror && !flip {
		return
	}
	if mirror {
		halfLen := pixelCount / 2
		rClone := append([]float32(nil), state.r...)
		gClone := append([]float32(nil), state.g...)
		bClone := append([]float32(nil), state.b...)
		if flip {
			for i := 0; i < halfLen; i++ {
				state.r[i] = rClone[halfLen-1-i]
				state.g[i] = gClone[halfLen-1-i]
				state.b[i] = bClone[halfLen-1-i]
			}
			copy(state.r[pixelCount-halfLen:], rClone[:halfLen])
			copy(state.g[pixelCount-halfLen:], gClone[:halfLen])
			copy(state.b[pixelCount-halfLen:], bClone[:halfLen])
		} else {
			for i := 0; i < halfLen; i++ {
				mirrorI := pixelCount - 1 - i
				state.r[mirrorI] = rClone[i]
				state.g[mirrorI] = gClone[i]
				state.b[mirrorI] = bClone[i]
			}
		}
		return
	}
	// flip only: reverse in place.
	reverseFloat32(state.r)
	reverseFloat32(state.g)
	reverseFloat32(state.b)
}

func reverseFloat32(s []float32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func saturatingAdd(a, b uint8) byte {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// scatterIntoDeviceBuffers copies surface's rendered frame into the
// appropriate offsets of each device's output buffer per the surface's
// cell matrix, allocating device buffers lazily and skipping cells whose
// device is unknown or whose offsets fall outside either buffer.
func scatterIntoDeviceBuffers(surface Surface, frame []byte, devices map[string]Device, buffers map[string][]byte) {
	linearIndex := 0
	for _, row := range surface.Matrix {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			dev, ok := devices[cell.DeviceIP]
			if !ok {
				linearIndex++
				continue
			}
			buf, ok := buffers[cell.DeviceIP]
			if !ok {
				buf = make([]byte, dev.PixelCount*3)
				buffers[cell.DeviceIP] = buf
			}
			srcIdx := linearIndex * 3
			dstIdx := cell.Pixel * 3
			if dstIdx+2 < len(buf) && srcIdx+2 < len(frame) {
				copy(buf[dstIdx:dstIdx+3], frame[srcIdx:srcIdx+3])
			}
			linearIndex++
		}
	}
}
