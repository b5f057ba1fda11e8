package cache

import (
	"errors"

	"ExpoScreener/internal/model"
)

var (
	// ErrCacheMissing means no batch has ever been saved to the artifact.
	ErrCacheMissing = errors.New("cache missing")
	// ErrCacheCorrupt means the artifact exists but cannot be read back
	// as a compatible batch.
	ErrCacheCorrupt = errors.New("cache corrupt")
)

// Store persists and reloads one complete screening batch. Save
// overwrites any prior content. Load never falls back to
// re-acquisition; the caller decides whether to re-run the scan.
type Store interface {
	Save(batch model.Batch) error
	Load() (model.Batch, error)
	Close() error
}
