// Package store persists engine state snapshots so a restart can resume
// with the device roster, surfaces, DSP settings, presets and scenes intact
// instead of coming up cold.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Persister loads and saves a single opaque snapshot blob. Callers
// marshal/unmarshal their own state; the persister only owns durability.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, snapshot []byte) error
	Close() error
}

// Snapshot is the JSON-serializable root persisted by both backends.
// Engine-specific state (devices, surfaces, DSP settings, presets, scenes)
// is embedded as raw JSON so store stays decoupled from the engine
// package's types.
type Snapshot struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

const currentVersion = 1

// Marshal wraps state in a versioned Snapshot envelope.
func Marshal(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("store: marshal state: %w", err)
	}
	return json.Marshal(Snapshot{Version: currentVersion, State: raw})
}

// Unmarshal decodes a versioned Snapshot envelope and unmarshals its state
// into dst.
func Unmarshal(blob []byte, dst any) error {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("store: unmarshal envelope: %w", err)
	}
	if snap.Version != currentVersion {
		return fmt.Errorf("store: unsupported snapshot version %d", snap.Version)
	}
	if len(snap.State) == 0 {
		return nil
	}
	return json.Unmarshal(snap.State, dst)
}

// compress brotli-encodes data. Compression is always applied before a
// snapshot touches disk or the database; the ratio on mostly-repetitive
// JSON state is worth the small CPU cost on the infrequent save path.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("store: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("store: compress: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: decompress: %w", err)
	}
	return out, nil
}
