package dsp

import "math"

// GaussianBlur1D smooths data in place with a mirror-edge-handled 1D
// Gaussian kernel of the given sigma. A sigma <= 0 or a buffer shorter than
// 3 samples is left untouched.
func GaussianBlur1D(data []float32, sigma float32) {
	if sigma <= 0 || len(data) < 3 {
		return
	}
	kernel := gaussianKernel(sigma, len(data))
	radius := len(kernel) / 2
	n := len(data)
	original := make([]float32, n)
	copy(original, data)

	for i := 0; i < n; i++ {
		var sum float32
		for kIdx, w := range kernel {
			offset := kIdx - radius
			idx := i + offset
			readIdx := mirrorIndex(idx, n)
			sum += original[readIdx] * w
		}
		data[i] = sum
	}
}

func gaussianKernel(sigma float32, arrayLen int) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}
	radius := int(math.Ceil(float64(4.0 * sigma)))
	if max := (arrayLen - 1) / 2; radius > max {
		radius = max
	}
	if radius < 1 {
		radius = 1
	}
	size := 2*radius + 1
	kernel := make([]float32, size)
	sigmaSq2 := 2 * sigma * sigma
	var sum float32
	for i := 0; i < size; i++ {
		x := float32(i - radius)
		v := float32(math.Exp(float64(-x * x / sigmaSq2)))
		kernel[i] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func mirrorIndex(idx, n int) int {
	switch {
	case idx < 0:
		idx = -idx
	case idx >= n:
		idx = n - 1 - (idx - (n - 1))
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
