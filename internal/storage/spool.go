package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
)

const spoolDir = "uploads"

// Spool holds accepted uploads between the request that carried them and the
// background read that decodes them.
type Spool struct {
	store Store
}

// NewSpool creates a spool backed by store.
func NewSpool(store Store) *Spool {
	return &Spool{store: store}
}

// Entry is one spooled upload.
type Entry struct {
	Path  string
	Size  int64
	spool *Spool
}

// Stash copies r into the spool under a fresh name.
func (s *Spool) Stash(ctx context.Context, r io.Reader) (*Entry, error) {
	p := path.Join(spoolDir, uuid.NewString())
	n, err := s.store.Save(ctx, p, r)
	if err != nil {
		_ = s.store.Delete(ctx, p)
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	return &Entry{Path: p, Size: n, spool: s}, nil
}

// Open reopens the spooled bytes.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.spool.store.Open(context.Background(), e.Path)
}

// Release deletes the spooled bytes.
func (e *Entry) Release() {
	if err := e.spool.store.Delete(context.Background(), e.Path); err != nil {
		slog.Warn("Failed to release spooled upload", "path", e.Path, "error", err)
	}
}
