package dsp

import (
	"math"
	"testing"
)

func TestMagnitudesOfSineYieldsExpectedPeakBin(t *testing.T) {
	n := 256
	freqBin := 16
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(freqBin) * float64(i) / float64(n))
	}
	mags := Magnitudes(samples)
	if len(mags) != n/2 {
		t.Fatalf("len(mags) = %d, want %d", len(mags), n/2)
	}
	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
		_ = m
	}
	if peak != freqBin {
		t.Errorf("peak bin = %d, want %d", peak, freqBin)
	}
}

func TestMagnitudesEmptyInput(t *testing.T) {
	if got := Magnitudes(nil); got != nil {
		t.Errorf("Magnitudes(nil) = %v, want nil", got)
	}
}

func TestGenerateBankProducesOneFilterPerBand(t *testing.T) {
	bank := GenerateBank(1024, 48000, 8, 20, 20000, Balanced, BladePlusParams{})
	if len(bank) != 8 {
		t.Fatalf("len(bank) = %d, want 8", len(bank))
	}
	for i, f := range bank {
		if len(f) == 0 {
			t.Errorf("band %d has no filter weights", i)
		}
	}
}

func TestGenerateBankMonotonicBinsAcrossVariants(t *testing.T) {
	for _, kind := range []FilterbankKind{Balanced, Precision, Vocal, Blade} {
		bank := GenerateBank(2048, 48000, 16, 20, 20000, kind, BladePlusParams{})
		if len(bank) != 16 {
			t.Fatalf("kind=%v len(bank) = %d, want 16", kind, len(bank))
		}
		checkStartBinsIncrease(t, kind, bank)
	}
	params := BladePlusParams{LogBase: 12, Multiplier: 3700, Divisor: 230}
	bank := GenerateBank(2048, 48000, 16, 20, 20000, BladePlus, params)
	if len(bank) != 16 {
		t.Fatalf("BladePlus len(bank) = %d, want 16", len(bank))
	}
	checkStartBinsIncrease(t, BladePlus, bank)
}

// checkStartBinsIncrease asserts each band's first filter bin (its start
// edge) is strictly greater than the previous band's.
func checkStartBinsIncrease(t *testing.T, kind FilterbankKind, bank Bank) {
	t.Helper()
	for i := range bank {
		if len(bank[i]) == 0 {
			t.Fatalf("kind=%v band %d has no filter weights", kind, i)
		}
		if i > 0 && bank[i][0].Bin <= bank[i-1][0].Bin {
			t.Errorf("kind=%v band %d start bin %d not above band %d start bin %d", kind, i, bank[i][0].Bin, i-1, bank[i-1][0].Bin)
		}
	}
}

func TestBankApplyWeightsMagnitudes(t *testing.T) {
	bank := Bank{{{Bin: 0, Weight: 1.0}, {Bin: 1, Weight: 0.5}}}
	out := bank.Apply([]float64{2.0, 4.0})
	want := float32(2.0*1.0 + 4.0*0.5)
	if out[0] != want {
		t.Errorf("Apply = %v, want %v", out[0], want)
	}
}

func TestBankApplyIgnoresOutOfRangeBins(t *testing.T) {
	bank := Bank{{{Bin: 99, Weight: 1.0}}}
	out := bank.Apply([]float64{1.0, 2.0})
	if out[0] != 0 {
		t.Errorf("Apply out-of-range = %v, want 0", out[0])
	}
}

func TestNormalizerTracksPeakAndClampsOutput(t *testing.T) {
	n := NewNormalizer(2)
	out := n.Apply([]float32{1.0, 0.0}, 0.0, 1.0, 1.0)
	if out[0] != 1.0 {
		t.Errorf("out[0] = %v, want 1.0 (peak tracks instantly with attack=1)", out[0])
	}
	out = n.Apply([]float32{0.0, 0.0}, 0.0, 1.0, 0.5)
	if out[0] < 0 || out[0] > 1 {
		t.Errorf("out[0] = %v out of [0,1]", out[0])
	}
}

func TestNormalizerPeakNeverBelowFloor(t *testing.T) {
	n := NewNormalizer(1)
	for i := 0; i < 1000; i++ {
		n.Apply([]float32{0.0}, 0.0, 0.01, 0.5)
	}
	if n.Peak < PeakFloor {
		t.Errorf("Peak = %v, below floor %v", n.Peak, PeakFloor)
	}
}

func TestGaussianBlur1DNoOpForNonPositiveSigma(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5}
	orig := append([]float32{}, data...)
	GaussianBlur1D(data, 0)
	for i := range data {
		if data[i] != orig[i] {
			t.Fatalf("data mutated with sigma=0: %v", data)
		}
	}
}

func TestGaussianBlur1DSmoothsSpike(t *testing.T) {
	data := []float32{0, 0, 0, 10, 0, 0, 0}
	GaussianBlur1D(data, 1.0)
	if data[3] >= 10 {
		t.Errorf("center value should be reduced by blur, got %v", data[3])
	}
	if data[2] <= 0 || data[4] <= 0 {
		t.Errorf("neighbors should pick up some of the spike's energy: %v", data)
	}
}

func TestLowsMidsHighsPowerRanges(t *testing.T) {
	bands := make([]float32, 128)
	for i := range bands {
		bands[i] = 1.0
	}
	if got := LowsPower(bands); got != 1.0 {
		t.Errorf("LowsPower = %v, want 1.0", got)
	}
	if got := MidsPower(bands); got != 1.0 {
		t.Errorf("MidsPower = %v, want 1.0", got)
	}
	if got := HighsPower(bands); got != 1.0 {
		t.Errorf("HighsPower = %v, want 1.0", got)
	}
}

func TestRangePowerHandlesShortInput(t *testing.T) {
	if got := LowsPower([]float32{1}); got != 0 {
		t.Errorf("LowsPower(single) = %v, want 0", got)
	}
	if got := LowsPower(nil); got != 0 {
		t.Errorf("LowsPower(nil) = %v, want 0", got)
	}
}
