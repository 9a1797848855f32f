package dsp

// PeakFloor is the minimum value the AGC peak tracker is allowed to decay
// to, preventing a division blow-up during silence.
const PeakFloor = 1e-4

// Normalizer holds the running state for exponential smoothing and
// asymmetric-attack/decay automatic gain control across ticks.
type Normalizer struct {
	Smoothed []float32
	Peak     float32
}

// NewNormalizer allocates a Normalizer for the given band count.
func NewNormalizer(numBands int) *Normalizer {
	return &Normalizer{Smoothed: make([]float32, numBands), Peak: PeakFloor}
}

// Apply smooths raw band energies into n.Smoothed, updates the AGC peak
// tracker, and returns the normalized [0,1] output bands.
func (n *Normalizer) Apply(raw []float32, smoothingFactor, agcAttack, agcDecay float32) []float32 {
	if len(n.Smoothed) != len(raw) {
		n.Smoothed = make([]float32, len(raw))
	}
	var currentMax float32
	for i, r := range raw {
		n.Smoothed[i] = n.Smoothed[i]*smoothingFactor + r*(1-smoothingFactor)
		if n.Smoothed[i] > currentMax {
			currentMax = n.Smoothed[i]
		}
	}
	if currentMax > n.Peak {
		n.Peak = n.Peak*(1-agcAttack) + currentMax*agcAttack
	} else {
		n.Peak = n.Peak*(1-agcDecay) + currentMax*agcDecay
	}
	if n.Peak < PeakFloor {
		n.Peak = PeakFloor
	}

	out := make([]float32, len(raw))
	for i, s := range n.Smoothed {
		v := s / n.Peak
		if v > 1.0 {
			v = 1.0
		}
		out[i] = v
	}
	return out
}
