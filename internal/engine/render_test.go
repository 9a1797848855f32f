package engine

import "testing"

func TestSaturatingAddClamps(t *testing.T) {
	if v := saturatingAdd(200, 100); v != 255 {
		t.Errorf("saturatingAdd(200,100) = %d, want 255", v)
	}
	if v := saturatingAdd(10, 20); v != 30 {
		t.Errorf("saturatingAdd(10,20) = %d, want 30", v)
	}
}

func TestApplyMirrorFlipNeitherIsNoOp(t *testing.T) {
	state := &surfaceRenderState{r: []float32{1, 2, 3, 4}, g: []float32{1, 2, 3, 4}, b: []float32{1, 2, 3, 4}}
	applyMirrorFlip(state, false, false, 4)
	want := []float32{1, 2, 3, 4}
	for i, v := range state.r {
		if v != want[i] {
			t.Fatalf("r[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestApplyMirrorFlipFlipOnlyReverses(t *testing.T) {
	state := &surfaceRenderState{r: []float32{1, 2, 3, 4}, g: []float32{1, 2, 3, 4}, b: []float32{1, 2, 3, 4}}
	applyMirrorFlip(state, false, true, 4)
	want := []float32{4, 3, 2, 1}
	for i, v := range state.r {
		if v != want[i] {
			t.Fatalf("r[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestApplyMirrorFlipMirrorOnlyCopiesFirstHalfReversedIntoSecondHalf(t *testing.T) {
	state := &surfaceRenderState{r: []float32{1, 2, 3, 4}, g: []float32{1, 2, 3, 4}, b: []float32{1, 2, 3, 4}}
	applyMirrorFlip(state, true, false, 4)
	want := []float32{1, 2, 2, 1}
	for i, v := range state.r {
		if v != want[i] {
			t.Fatalf("r[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestApplyMirrorFlipMirrorAndFlipReversesFirstHalfInPlace(t *testing.T) {
	state := &surfaceRenderState{r: []float32{1, 2, 3, 4}, g: []float32{1, 2, 3, 4}, b: []float32{1, 2, 3, 4}}
	applyMirrorFlip(state, true, true, 4)
	want := []float32{2, 1, 1, 2}
	for i, v := range state.r {
		if v != want[i] {
			t.Fatalf("r[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestScatterIntoDeviceBuffersRespectsCellMapping(t *testing.T) {
	surface := Surface{
		Matrix: [][]*Cell{
			{{DeviceIP: "dev1", Pixel: 2}, {DeviceIP: "dev1", Pixel: 0}},
		},
	}
	devices := map[string]Device{"dev1": {IP: "dev1", PixelCount: 5}}
	buffers := make(map[string][]byte)
	frame := []byte{10, 20, 30, 40, 50, 60}

	scatterIntoDeviceBuffers(surface, frame, devices, buffers)

	buf := buffers["dev1"]
	if len(buf) != 15 {
		t.Fatalf("buffer len = %d, want 15", len(buf))
	}
	if buf[6] != 10 || buf[7] != 20 || buf[8] != 30 {
		t.Errorf("pixel 2 = %v, want [10 20 30]", buf[6:9])
	}
	if buf[0] != 40 || buf[1] != 50 || buf[2] != 60 {
		t.Errorf("pixel 0 = %v, want [40 50 60]", buf[0:3])
	}
}

func TestScatterIntoDeviceBuffersSkipsUnknownDevice(t *testing.T) {
	surface := Surface{Matrix: [][]*Cell{{{DeviceIP: "missing", Pixel: 0}}}}
	buffers := make(map[string][]byte)
	scatterIntoDeviceBuffers(surface, []byte{1, 2, 3}, map[string]Device{}, buffers)
	if len(buffers) != 0 {
		t.Fatalf("expected no buffers allocated for unknown device, got %v", buffers)
	}
}
