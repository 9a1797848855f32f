package dsp

import (
	"context"
	"math"
	"testing"
	"time"
)

func testSettings() Settings {
	return Settings{
		FFTSize:         256,
		NumBands:        8,
		MinFreq:         20,
		MaxFreq:         20000,
		FilterbankKind:  Balanced,
		SmoothingFactor: 0.0,
		AGCAttack:       1.0,
		AGCDecay:        1.0,
		AudioDelayMS:    0,
	}
}

func sineBatch(n, freqBin, period int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * float64(freqBin) * float64(i) / float64(period)))
	}
	return out
}

func TestProcessorSnapshotStartsZeroedAtConfiguredBandCount(t *testing.T) {
	p := NewProcessor(48000, 1, testSettings())
	snap := p.Snapshot()
	if len(snap) != 8 {
		t.Fatalf("len(snapshot) = %d, want 8", len(snap))
	}
	for i, v := range snap {
		if v != 0 {
			t.Fatalf("snapshot[%d] = %v, want 0 before any frame is processed", i, v)
		}
	}
}

func TestProcessorRunProducesNonZeroBandsForToneInput(t *testing.T) {
	p := NewProcessor(256, 1, testSettings())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	if !p.Ingest(sineBatch(256, 32, 256)) {
		t.Fatal("expected Ingest to accept a batch with room in the queue")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := p.Snapshot()
		for _, v := range snap {
			if v > 0 {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected at least one band to register energy from the injected tone")
}

func TestProcessorUpdateSettingsRebuildsBandCount(t *testing.T) {
	p := NewProcessor(48000, 1, testSettings())
	s := testSettings()
	s.NumBands = 16
	p.UpdateSettings(s)
	if len(p.Snapshot()) != 16 {
		t.Fatalf("len(snapshot) after NumBands change = %d, want 16", len(p.Snapshot()))
	}
}

func TestProcessorRestartIsNonBlockingAndCoalesces(t *testing.T) {
	p := NewProcessor(48000, 1, testSettings())
	p.Restart()
	p.Restart() // must not block even though nobody has read the first signal yet

	select {
	case <-p.RestartRequested():
	default:
		t.Fatal("expected a restart signal to be pending")
	}
}

func TestProcessorDelayDelaysFirstOutput(t *testing.T) {
	s := testSettings()
	s.AudioDelayMS = 500
	p := NewProcessor(256, 1, s) // 500ms at 256Hz = 128 samples of delay
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// A single 256-sample batch is entirely absorbed by the 128-sample
	// delay ring plus partially fills the 256-sample FFT window, so no
	// window completes yet.
	p.Ingest(sineBatch(256, 32, 256))
	time.Sleep(20 * time.Millisecond)
	snap := p.Snapshot()
	for i, v := range snap {
		if v != 0 {
			t.Fatalf("snapshot[%d] = %v, want 0 before the delayed window fills", i, v)
		}
	}
}
