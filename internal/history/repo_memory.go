package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Entry // documentID -> entries in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Entry),
	}
}

// Append stores a new history entry.
func (r *MemoryRepo) Append(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[entry.DocumentID] = append(r.data[entry.DocumentID], entry)
	return nil
}

// ListByDocument returns all entries for a document, oldest first.
func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, len(r.data[documentID]))
	copy(entries, r.data[documentID])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ActionDate.Before(entries[j].ActionDate)
	})
	return entries, nil
}

// ListUploads returns upload-type entries, highest version first.
func (r *MemoryRepo) ListUploads(ctx context.Context, documentID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, entry := range r.data[documentID] {
		if entry.IsUpload() {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Version > out[j].Version
	})
	return out, nil
}

// FileURLs returns the file URL of every entry that recorded one.
func (r *MemoryRepo) FileURLs(ctx context.Context, documentID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, entry := range r.data[documentID] {
		if entry.FileURL != "" {
			out = append(out, entry.FileURL)
		}
	}
	return out, nil
}

// DeleteByDocument removes the whole audit trail of a document.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
