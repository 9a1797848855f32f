package effect

import "testing"

func TestRainbowAdvancesHueEachTick(t *testing.T) {
	e := newRainbow(DefaultRainbowConfig())
	out := make([]byte, 30)
	e.Render(AudioFrame{}, out)
	h1 := e.hue
	e.Render(AudioFrame{}, out)
	if e.hue == h1 {
		t.Fatal("expected hue to advance between renders")
	}
}

func TestRainbowFillsEntireStripUniformly(t *testing.T) {
	e := newRainbow(DefaultRainbowConfig())
	out := make([]byte, 30)
	e.Render(AudioFrame{}, out)
	first := [3]byte{out[0], out[1], out[2]}
	for i := 1; i < 10; i++ {
		if out[i*3] != first[0] || out[i*3+1] != first[1] || out[i*3+2] != first[2] {
			t.Fatal("expected rainbow effect to fill the whole strip with one color per tick")
		}
	}
}

func TestScrollVariesHueAcrossPixels(t *testing.T) {
	e := newScroll(DefaultScrollConfig())
	out := make([]byte, 30)
	e.Render(AudioFrame{}, out)
	allSame := true
	for i := 1; i < 10; i++ {
		if out[i*3] != out[0] || out[i*3+1] != out[1] || out[i*3+2] != out[2] {
			allSame = false
		}
	}
	if allSame {
		t.Fatal("expected scroll effect to vary hue across pixels")
	}
}

func TestSolidScanLightsExactlyOnePixel(t *testing.T) {
	cfg := DefaultSolidScanConfig()
	cfg.Speed = 0
	e := newSolidScan(cfg, 10)
	out := make([]byte, 30)
	e.Render(AudioFrame{}, out)

	lit := 0
	for i := 0; i < 10; i++ {
		if out[i*3] != 0 || out[i*3+1] != 0 || out[i*3+2] != 0 {
			lit++
		}
	}
	if lit != 1 {
		t.Fatalf("lit pixel count = %d, want 1", lit)
	}
}

func TestSolidScanUpdateConfigRejectsMismatchedKind(t *testing.T) {
	e := newSolidScan(DefaultSolidScanConfig(), 10)
	if err := e.UpdateConfig(DefaultRainbowConfig()); err == nil {
		t.Fatal("expected error updating solid_scan with a rainbow config")
	}
}
