package comments

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory CommentsRepo for development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	byDocID map[string][]Comment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byDocID: make(map[string][]Comment)}
}

func (r *MemoryRepo) Create(ctx context.Context, comment Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDocID[comment.DocumentID] = append(r.byDocID[comment.DocumentID], comment)
	return nil
}

func (r *MemoryRepo) ListByDocumentVersion(ctx context.Context, documentID string, version int) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Comment
	for _, c := range r.byDocID[documentID] {
		if c.Version == version {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CountByDocuments(ctx context.Context, documentIDs []string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(documentIDs))
	for _, id := range documentIDs {
		if n := len(r.byDocID[id]); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byDocID, documentID)
	return nil
}

var _ CommentsRepo = (*MemoryRepo)(nil)
