package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory DocumentsRepo for development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) UpdateVersion(ctx context.Context, documentID, fileURL, fileName string, pageCount, newVersion, expectedVersion int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.CurrentVersion != expectedVersion {
		return ErrVersionConflict
	}
	doc.FileURL = fileURL
	doc.FileName = fileName
	doc.PageCount = pageCount
	doc.CurrentVersion = newVersion
	doc.Status = StatusPending
	doc.UpdatedAt = time.Now().UTC()
	r.docs[documentID] = doc
	return nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, documentID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = time.Now().UTC()
	r.docs[documentID] = doc
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, documentID)
	return nil
}

func (r *MemoryRepo) ListUploadedBy(ctx context.Context, userID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.docs {
		if doc.UploadedBy == userID {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByIDs(ctx context.Context, documentIDs []string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0, len(documentIDs))
	for _, id := range documentIDs {
		if doc, ok := r.docs[id]; ok {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
