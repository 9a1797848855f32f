package dsp

import (
	"fmt"
	"math"
)

// FilterbankKind selects how band center frequencies are warped across the
// [minFreq, maxFreq] range before being projected onto FFT bins.
type FilterbankKind int

const (
	Balanced  FilterbankKind = iota // mel-warped, perceptually even
	Precision                      // linear Hz spacing
	Vocal                          // emphasizes the vocal formant range
	Blade                          // emphasizes bass/kick transients
	BladePlus                      // Blade-style warp with tunable parameters
)

// BladePlusParams parameterizes the BladePlus warp: warped(hz) =
// multiplier * log_base(1 + hz/divisor).
type BladePlusParams struct {
	LogBase    float32
	Multiplier float32
	Divisor    float32
}

// Filter is a sparse triangular weighting over FFT bins: Bin is the FFT bin
// index, Weight its contribution in [0,1].
type Filter struct {
	Bin    int
	Weight float32
}

// String renders the wire name persisted/exchanged for k, matching the
// filterbank_type strings the original settings schema uses.
func (k FilterbankKind) String() string {
	switch k {
	case Precision:
		return "precision"
	case Vocal:
		return "vocal"
	case Blade:
		return "blade"
	case BladePlus:
		return "blade_plus"
	default:
		return "balanced"
	}
}

// ParseFilterbankKind maps a persisted filterbank_type string back to its
// FilterbankKind, defaulting unknown or empty input to Balanced.
func ParseFilterbankKind(s string) (FilterbankKind, error) {
	switch s {
	case "", "balanced":
		return Balanced, nil
	case "precision":
		return Precision, nil
	case "vocal":
		return Vocal, nil
	case "blade":
		return Blade, nil
	case "blade_plus":
		return BladePlus, nil
	default:
		return Balanced, fmt.Errorf("dsp: unknown filterbank_type %q", s)
	}
}

func hzToMel(hz float32) float32  { return 2595.0 * log10(1.0+hz/700.0) }
func melToHz(mel float32) float32 { return 700.0 * (pow10(mel/2595.0) - 1.0) }

func hzToBlade(hz float32) float32  { return 3700.0 * logBase(1.0+hz/230.0, 12.0) }
func bladeToHz(blade float32) float32 {
	return 230.0 * (float32(math.Pow(12.0, float64(blade)/3700.0)) - 1.0)
}

func hzToVocal(hz float32) float32 { return 3340.0 * logBase(1.0+hz/250.0, 9.0) }
func vocalToHz(vocal float32) float32 {
	return 250.0 * (float32(math.Pow(9.0, float64(vocal)/3340.0)) - 1.0)
}

func log10(x float32) float32 { return float32(math.Log10(float64(x))) }
func pow10(x float32) float32 { return float32(math.Pow(10.0, float64(x))) }
func logBase(x, base float32) float32 {
	return float32(math.Log(float64(x)) / math.Log(float64(base)))
}

// hzPoints returns num_bands+2 warped frequency points spanning
// [minFreq, maxFreq], used as the triangular filter edges.
func hzPoints(numBands int, minFreq, maxFreq float32, kind FilterbankKind, params BladePlusParams) []float32 {
	n := numBands + 1
	out := make([]float32, 0, n+1)
	switch kind {
	case Balanced:
		lo, hi := hzToMel(minFreq), hzToMel(maxFreq)
		for i := 0; i <= n; i++ {
			out = append(out, melToHz(lo+float32(i)*(hi-lo)/float32(n)))
		}
	case Precision:
		for i := 0; i <= n; i++ {
			out = append(out, minFreq+float32(i)*(maxFreq-minFreq)/float32(n))
		}
	case Blade:
		lo, hi := hzToBlade(minFreq), hzToBlade(maxFreq)
		for i := 0; i <= n; i++ {
			out = append(out, bladeToHz(lo+float32(i)*(hi-lo)/float32(n)))
		}
	case Vocal:
		lo, hi := hzToVocal(minFreq), hzToVocal(maxFreq)
		for i := 0; i <= n; i++ {
			out = append(out, vocalToHz(lo+float32(i)*(hi-lo)/float32(n)))
		}
	case BladePlus:
		toCustom := func(hz float32) float32 {
			return params.Multiplier * logBase(1.0+hz/params.Divisor, params.LogBase)
		}
		toHz := func(c float32) float32 {
			return params.Divisor * (float32(math.Pow(float64(params.LogBase), float64(c/params.Multiplier))) - 1.0)
		}
		lo, hi := toCustom(minFreq), toCustom(maxFreq)
		for i := 0; i <= n; i++ {
			out = append(out, toHz(lo+float32(i)*(hi-lo)/float32(n)))
		}
	}
	return out
}

// Bank is a full filterbank: one []Filter slice per band.
type Bank [][]Filter

// GenerateBank builds the filterbank: it returns one filter slice per band.
func GenerateBank(fftSize int, sampleRate int, numBands int, minFreq, maxFreq float32, kind FilterbankKind, params BladePlusParams) Bank {
	points := hzPoints(numBands, minFreq, maxFreq, kind, params)
	bins := make([]int, len(points))
	for i, hz := range points {
		bins[i] = int(math.Floor(float64(hz) * float64(fftSize) / float64(sampleRate)))
	}
	for i := 1; i < len(bins); i++ {
		if bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
	}

	bank := make(Bank, numBands)
	for i := 0; i < numBands; i++ {
		var filter []Filter
		startBin, centerBin, endBin := bins[i], bins[i+1], bins[i+2]
		for k := startBin; k < centerBin; k++ {
			if centerBin > startBin {
				filter = append(filter, Filter{Bin: k, Weight: float32(k-startBin) / float32(centerBin-startBin)})
			}
		}
		for k := centerBin; k < endBin; k++ {
			if endBin > centerBin {
				filter = append(filter, Filter{Bin: k, Weight: float32(endBin-k) / float32(endBin-centerBin)})
			}
		}
		bank[i] = filter
	}
	return bank
}

// Apply projects an FFT magnitude spectrum onto the bank, producing one
// energy value per band.
func (b Bank) Apply(magnitudes []float64) []float32 {
	out := make([]float32, len(b))
	for i, filter := range b {
		var sum float32
		for _, f := range filter {
			if f.Bin >= 0 && f.Bin < len(magnitudes) {
				sum += float32(magnitudes[f.Bin]) * f.Weight
			}
		}
		out[i] = sum
	}
	return out
}
