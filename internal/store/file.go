package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister stores the snapshot as a single brotli-compressed file,
// written via a temp-file-then-rename so a crash mid-write never leaves a
// truncated snapshot behind.
type FilePersister struct {
	path string
}

// NewFilePersister opens a file-backed persister rooted at dir, creating
// dir if it does not exist.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create state dir: %w", err)
	}
	return &FilePersister{path: filepath.Join(dir, "snapshot.bin")}, nil
}

func (p *FilePersister) Load(ctx context.Context) ([]byte, error) {
	raw, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read snapshot: %w", err)
	}
	return decompress(raw)
}

func (p *FilePersister) Save(ctx context.Context, snapshot []byte) error {
	packed, err := compress(snapshot)
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, packed, 0o644); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("store: finalize snapshot: %w", err)
	}
	return nil
}

func (p *FilePersister) Close() error { return nil }
