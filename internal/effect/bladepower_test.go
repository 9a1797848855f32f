package effect

import "testing"

func bandsWithBass(v float32) []float32 {
	bands := make([]float32, 128)
	for i := 0; i <= 15; i++ {
		bands[i] = v
	}
	return bands
}

func TestBladePowerRenderGrowsBarWithPower(t *testing.T) {
	cfg := DefaultBladePowerConfig()
	e := newBladePower(cfg, 20)
	out := make([]byte, 20*3)

	e.Render(AudioFrame{Bands: bandsWithBass(1.0)}, out)

	lit := 0
	for i := 0; i < 20; i++ {
		if out[i*3] != 0 || out[i*3+1] != 0 || out[i*3+2] != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("expected at least one lit pixel for strong bass input")
	}
}

func TestBladePowerUpdateConfigPreservesVChannel(t *testing.T) {
	cfg := DefaultBladePowerConfig()
	e := newBladePower(cfg, 10)
	out := make([]byte, 30)
	e.Render(AudioFrame{Bands: bandsWithBass(1.0)}, out)

	before := append([]float32(nil), e.vChannel...)

	newCfg := cfg
	newCfg.Gradient = "#00ff00"
	if err := e.UpdateConfig(newCfg); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	for i := range before {
		if e.vChannel[i] != before[i] {
			t.Fatalf("vChannel[%d] changed across UpdateConfig: %v -> %v", i, before[i], e.vChannel[i])
		}
	}
}

func TestBladePowerUpdateConfigRebuildsPalette(t *testing.T) {
	cfg := DefaultBladePowerConfig()
	e := newBladePower(cfg, 5)
	before := append([]byte(nil), e.palette[0][:]...)

	newCfg := cfg
	newCfg.Gradient = "#00ff00"
	if err := e.UpdateConfig(newCfg); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	after := e.palette[0]
	if after[0] == before[0] && after[1] == before[1] && after[2] == before[2] {
		t.Fatal("expected palette to change after gradient update")
	}
}

func TestBladePowerFrequencyRangeSelectsBand(t *testing.T) {
	cfg := DefaultBladePowerConfig()
	cfg.FrequencyRange = FreqHighs
	e := newBladePower(cfg, 10)
	out := make([]byte, 30)

	bands := make([]float32, 128)
	for i := 64; i <= 127; i++ {
		bands[i] = 1.0
	}
	e.Render(AudioFrame{Bands: bands}, out)

	lit := false
	for i := 0; i < 10; i++ {
		if out[i*3] != 0 || out[i*3+1] != 0 || out[i*3+2] != 0 {
			lit = true
		}
	}
	if !lit {
		t.Fatal("expected highs-driven render to light at least one pixel")
	}
}
