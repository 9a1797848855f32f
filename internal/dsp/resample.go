package dsp

// ResampleLinear resamples samples from sourceHz to targetHz by linear
// interpolation, mirroring the original capture pipeline's
// dasp::interpolate::linear::Linear resample path. A no-op copy is
// returned when the rates already match or either rate is non-positive.
func ResampleLinear(samples []float64, sourceHz, targetHz int) []float64 {
	if sourceHz <= 0 || targetHz <= 0 || sourceHz == targetHz || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(sourceHz) / float64(targetHz)
	n := int(float64(len(samples)) / ratio)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)
		switch {
		case idx+1 < len(samples):
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		case idx < len(samples):
			out[i] = samples[idx]
		}
	}
	return out
}

// mixToMono averages interleaved multi-channel samples down to one channel,
// matching data.chunks(channels).map(sum/channels) from the original
// capture callback.
func mixToMono(samples []float32, channels int) []float64 {
	if channels <= 1 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = float64(s)
		}
		return out
	}

	n := len(samples) / channels
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(samples[i*channels+c])
		}
		out[i] = sum / float64(channels)
	}
	return out
}
