package shares

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory SharesRepo for development and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	shares    map[string]SharedDocument  // keyed by share ID
	approvals map[string][]ApprovalEntry // keyed by share ID
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		shares:    make(map[string]SharedDocument),
		approvals: make(map[string][]ApprovalEntry),
	}
}

func (r *MemoryRepo) CreateForRecipients(ctx context.Context, documentID string, recipientIDs []string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, recipientID := range recipientIDs {
		if r.findLocked(documentID, recipientID) != nil {
			continue
		}
		share := SharedDocument{
			ID:               uuid.NewString(),
			DocumentID:       documentID,
			SharedWithUserID: recipientID,
			CurrentVersion:   version,
			ApprovalStatus:   statusPending,
		}
		r.shares[share.ID] = share
	}
	return nil
}

func (r *MemoryRepo) ResetForVersion(ctx context.Context, documentID string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, share := range r.shares {
		if share.DocumentID != documentID {
			continue
		}
		share.CurrentVersion = version
		share.ApprovalStatus = statusPending
		share.IsApproved = false
		share.ApprovalDate = nil
		r.shares[id] = share
	}
	return nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]SharedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []SharedDocument
	for _, share := range r.shares {
		if share.DocumentID == documentID {
			out = append(out, share)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SharedWithUserID < out[j].SharedWithUserID
	})
	return out, nil
}

func (r *MemoryRepo) GetByDocumentAndUser(ctx context.Context, documentID, userID string) (SharedDocument, error) {
	if err := ctx.Err(); err != nil {
		return SharedDocument{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if share := r.findLocked(documentID, userID); share != nil {
		return *share, nil
	}
	return SharedDocument{}, ErrNotFound
}

func (r *MemoryRepo) UpdateDecision(ctx context.Context, shareID, status string, isApproved bool, approvalDate *time.Time, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.shares[shareID]
	if !ok {
		return ErrNotFound
	}
	share.ApprovalStatus = status
	share.IsApproved = isApproved
	share.ApprovalDate = approvalDate
	share.CurrentVersion = version
	r.shares[shareID] = share
	return nil
}

func (r *MemoryRepo) AppendApproval(ctx context.Context, entry ApprovalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvals[entry.ShareID] = append(r.approvals[entry.ShareID], entry)
	return nil
}

func (r *MemoryRepo) ListApprovalsByDocument(ctx context.Context, documentID string) (map[string][]ApprovalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]ApprovalEntry)
	for shareID, share := range r.shares {
		if share.DocumentID != documentID {
			continue
		}
		entries := r.approvals[shareID]
		if len(entries) == 0 {
			continue
		}
		cp := make([]ApprovalEntry, len(entries))
		copy(cp, entries)
		sort.SliceStable(cp, func(i, j int) bool {
			return cp[i].ActionDate.Before(cp[j].ActionDate)
		})
		out[shareID] = cp
	}
	return out, nil
}

func (r *MemoryRepo) DocumentIDsSharedWith(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, share := range r.shares {
		if share.SharedWithUserID == userID {
			out = append(out, share.DocumentID)
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
	for id, share := range r.shares {
		if share.DocumentID == documentID {
			delete(r.shares, id)
			delete(r.approvals, id)
		}
	}
	return nil
}

func (r *MemoryRepo) findLocked(documentID, userID string) *SharedDocument {
	for id, share := range r.shares {
		if share.DocumentID == documentID && share.SharedWithUserID == userID {
			found := r.shares[id]
			return &found
		}
	}
	return nil
}

var _ SharesRepo = (*MemoryRepo)(nil)
