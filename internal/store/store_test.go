package store

import (
	"context"
	"path/filepath"
	"testing"
)

type sampleState struct {
	ActiveScene string `json:"active_scene"`
	Brightness  int    `json:"brightness"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sampleState{ActiveScene: "sunset", Brightness: 80}
	blob, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out sampleState
	if err := Unmarshal(blob, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	err := Unmarshal([]byte(`{"version":99,"state":{}}`), &sampleState{})
	if err == nil {
		t.Fatal("expected error for unsupported snapshot version")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	data := []byte(`{"hello":"world","n":12345}`)
	packed, err := compress(data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(packed) == 0 {
		t.Fatal("expected non-empty compressed output")
	}
	out, err := decompress(packed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(out) != string(data) {
		t.Fatalf("decompress mismatch: got %q, want %q", out, data)
	}
}

func TestFilePersisterLoadMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}
	defer p.Close()

	blob, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if blob != nil {
		t.Fatalf("expected nil blob for missing snapshot, got %v", blob)
	}
}

func TestFilePersisterSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}
	defer p.Close()

	ctx := context.Background()
	want := sampleState{ActiveScene: "party", Brightness: 255}
	blob, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := p.Save(ctx, blob); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var got sampleState
	if err := Unmarshal(loaded, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("loaded state = %+v, want %+v", got, want)
	}
}

func TestSQLitePersisterSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	p, err := NewSQLitePersister(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("NewSQLitePersister: %v", err)
	}
	defer p.Close()

	ctx := context.Background()
	want := sampleState{ActiveScene: "calm", Brightness: 10}
	blob, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := p.Save(ctx, blob); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Save(ctx, blob); err != nil {
		t.Fatalf("Save (upsert overwrite): %v", err)
	}

	loaded, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var got sampleState
	if err := Unmarshal(loaded, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("loaded state = %+v, want %+v", got, want)
	}
}

func TestSQLitePersisterLoadMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	p, err := NewSQLitePersister(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("NewSQLitePersister: %v", err)
	}
	defer p.Close()

	blob, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if blob != nil {
		t.Fatalf("expected nil blob for empty table, got %v", blob)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(t.TempDir(), "postgres"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
