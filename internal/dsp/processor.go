package dsp

import (
	"context"
	"sync"
)

// Settings is the runtime-adjustable configuration of a Processor, split
// the same way the original stream callback split its locked DspSettings:
// the first group forces a filterbank/window rebuild when changed, the
// second applies to the very next processed window.
type Settings struct {
	FFTSize          int
	NumBands         int
	MinFreq          float32
	MaxFreq          float32
	FilterbankKind   FilterbankKind
	BladePlusParams  BladePlusParams
	TargetSampleRate int // 0 = no resampling, process at the source rate

	SmoothingFactor float32
	AGCAttack       float32
	AGCDecay        float32
	AudioDelayMS    int
}

// PCM is one batch of interleaved samples handed to a Processor, matching
// the shape CPAL's input stream callback receives per buffer.
type PCM struct {
	Samples []float32
}

// Processor turns a stream of PCM batches into a continuously updated
// Snapshot of normalized per-band energies. It owns the filterbank, delay
// ring, and smoothing/AGC state the original stream callback closed over;
// here they live on a struct driven by Run instead of an audio-driver
// callback, since the capture backend that would feed Ingest is a
// host-process concern this package does not implement.
type Processor struct {
	sourceSampleRate int
	channels         int

	mu       sync.Mutex
	settings Settings
	bank     Bank
	normal   *Normalizer
	delayBuf []float64
	pending  []float64

	snapMu sync.Mutex
	snap   []float32

	in      chan PCM
	restart chan struct{}
}

// NewProcessor builds a Processor for a source stream of sourceSampleRate
// Hz with the given channel count, and builds its filterbank from the
// initial settings.
func NewProcessor(sourceSampleRate, channels int, settings Settings) *Processor {
	p := &Processor{
		sourceSampleRate: sourceSampleRate,
		channels:         channels,
		settings:         settings,
		in:               make(chan PCM, 4),
		restart:          make(chan struct{}, 1),
	}
	p.mu.Lock()
	p.rebuildLocked()
	p.mu.Unlock()
	return p
}

func (p *Processor) effectiveSampleRateLocked() int {
	if p.settings.TargetSampleRate > 0 {
		return p.settings.TargetSampleRate
	}
	return p.sourceSampleRate
}

// rebuildLocked regenerates the filterbank and resets the smoothing/AGC and
// ring-buffer state. Called with mu held, whenever a critical setting
// changes (band count, FFT size, frequency range, filterbank kind, or
// resample target) since the filter weights no longer describe the new
// spectrum shape.
func (p *Processor) rebuildLocked() {
	rate := p.effectiveSampleRateLocked()
	p.bank = GenerateBank(p.settings.FFTSize, rate, p.settings.NumBands, p.settings.MinFreq, p.settings.MaxFreq, p.settings.FilterbankKind, p.settings.BladePlusParams)
	p.normal = NewNormalizer(p.settings.NumBands)
	p.delayBuf = nil
	p.pending = nil

	p.snapMu.Lock()
	p.snap = make([]float32, p.settings.NumBands)
	p.snapMu.Unlock()
}

// UpdateSettings applies s, rebuilding the filterbank only if a critical
// field changed.
func (p *Processor) UpdateSettings(s Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	critical := s.FFTSize != p.settings.FFTSize ||
		s.NumBands != p.settings.NumBands ||
		s.MinFreq != p.settings.MinFreq ||
		s.MaxFreq != p.settings.MaxFreq ||
		s.FilterbankKind != p.settings.FilterbankKind ||
		s.BladePlusParams != p.settings.BladePlusParams ||
		s.TargetSampleRate != p.settings.TargetSampleRate
	p.settings = s
	if critical {
		p.rebuildLocked()
	}
}

// Restart signals that the host's capture stream should be torn down and
// rebuilt (e.g. after a device change). The processor itself holds no
// device handle; it only relays the request to whatever is listening on
// RestartRequested.
func (p *Processor) Restart() {
	select {
	case p.restart <- struct{}{}:
	default:
	}
}

// RestartRequested is signaled once per Restart call, coalesced if nobody
// is listening.
func (p *Processor) RestartRequested() <-chan struct{} { return p.restart }

// Ingest enqueues one batch of interleaved PCM samples for processing.
// It never blocks: a batch is dropped if the internal queue is full, the
// same backpressure behavior an audio callback needs since it cannot
// afford to block on a slow consumer.
func (p *Processor) Ingest(samples []float32) bool {
	select {
	case p.in <- PCM{Samples: samples}:
		return true
	default:
		return false
	}
}

// Snapshot returns a copy of the most recently computed band energies.
func (p *Processor) Snapshot() []float32 {
	p.snapMu.Lock()
	defer p.snapMu.Unlock()
	out := make([]float32, len(p.snap))
	copy(out, p.snap)
	return out
}

// Run drains Ingest batches until ctx is canceled, processing each one in
// turn. Only one goroutine should call Run for a given Processor.
func (p *Processor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pcm := <-p.in:
			p.process(pcm.Samples)
		}
	}
}

// process implements shared_processing.rs's per-callback steps: mono mix,
// optional resample, delay ring, then windowed FFT -> filterbank ->
// smoothing/AGC for every full window accumulated so far.
func (p *Processor) process(samples []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mono := mixToMono(samples, p.channels)
	rate := p.effectiveSampleRateLocked()
	if p.settings.TargetSampleRate > 0 && p.settings.TargetSampleRate != p.sourceSampleRate {
		mono = ResampleLinear(mono, p.sourceSampleRate, p.settings.TargetSampleRate)
	}

	delaySamples := int(float64(p.settings.AudioDelayMS) / 1000.0 * float64(rate))
	p.delayBuf = append(p.delayBuf, mono...)
	if excess := len(p.delayBuf) - delaySamples; excess > 0 {
		p.pending = append(p.pending, p.delayBuf[:excess]...)
		p.delayBuf = append([]float64(nil), p.delayBuf[excess:]...)
	}

	fftSize := p.settings.FFTSize
	if fftSize <= 0 {
		return
	}
	for len(p.pending) >= fftSize {
		window := p.pending[:fftSize]
		mags := Magnitudes(window)
		raw := p.bank.Apply(mags)
		final := p.normal.Apply(raw, p.settings.SmoothingFactor, p.settings.AGCAttack, p.settings.AGCDecay)

		p.snapMu.Lock()
		p.snap = final
		p.snapMu.Unlock()

		p.pending = p.pending[fftSize:]
	}
	if len(p.pending) > 0 {
		p.pending = append([]float64(nil), p.pending...)
	} else {
		p.pending = nil
	}
}
