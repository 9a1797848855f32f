package store

import (
	"fmt"
	"path/filepath"
)

// Open returns the Persister for backend ("json" or "file" for the
// file-backed store, or "sqlite"), rooted at dir.
func Open(dir, backend string) (Persister, error) {
	switch backend {
	case "", "json", "file":
		return NewFilePersister(dir)
	case "sqlite":
		return NewSQLitePersister(filepath.Join(dir, "state.db"))
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}
