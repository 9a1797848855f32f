// Package dsp turns a raw audio sample buffer into normalized per-band
// energies: window the samples, take their FFT magnitude spectrum, project
// it onto a filterbank, then smooth and auto-gain-control the result.
package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Magnitudes applies a Hann window to samples and returns the magnitude of
// the first half of its FFT (the spectrum is symmetric for real input, so
// the second half carries no extra information).
func Magnitudes(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	windowed := make([]float64, len(samples))
	copy(windowed, samples)
	windowed = window.Hann(windowed)

	fft := fourier.NewFFT(len(windowed))
	coeff := fft.Coefficients(nil, windowed)
	coeff = coeff[:len(coeff)/2]

	mags := make([]float64, len(coeff))
	for i, c := range coeff {
		mags[i] = cmplx.Abs(c)
	}
	return mags
}
