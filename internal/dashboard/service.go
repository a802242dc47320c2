package dashboard

import (
	"context"
	"sync"
	"time"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shares"
	"docshare-backend/internal/users"
)

// DocumentsSource provides the caller's document lists. The documents
// service satisfies it.
type DocumentsSource interface {
	ListUploadedBy(ctx context.Context, userID string) ([]documents.Document, error)
	ListSharedWith(ctx context.Context, userID string) ([]documents.Document, error)
}

// SharesSource provides per-recipient share views for the caller's own
// documents. The shares service satisfies it.
type SharesSource interface {
	ListForDocument(ctx context.Context, callerID, documentID string) ([]shares.ShareView, error)
}

// CommentsSource counts comments per document. The comments
// repositories satisfy it.
type CommentsSource interface {
	CountByDocuments(ctx context.Context, documentIDs []string) (map[string]int, error)
}

// UsersSource lists possible recipients. The users service satisfies it.
type UsersSource interface {
	ListOthers(ctx context.Context, callerID string) ([]users.User, error)
}

// UploadedDocument is one of the caller's documents with its share
// standing and comment count.
type UploadedDocument struct {
	Document     documents.Document
	Shares       []shares.ShareView
	CommentCount int
}

// Snapshot is everything the dashboard shows for one user.
type Snapshot struct {
	GeneratedAt  time.Time
	Uploaded     []UploadedDocument
	SharedWithMe []documents.Document
	OtherUsers   []users.User
}

type cachedSnapshot struct {
	snapshot Snapshot
	storedAt time.Time
}

// Service assembles dashboard snapshots and caches them per user so
// dashboard polling does not hammer the store.
type Service struct {
	Docs       DocumentsSource
	Shares     SharesSource
	Comments   CommentsSource
	Users      UsersSource
	StaleAfter time.Duration

	mu    sync.Mutex
	cache map[string]cachedSnapshot
}

// Snapshot returns the dashboard for a user, served from cache while
// fresh. force bypasses the cache.
func (s *Service) Snapshot(ctx context.Context, userID string, force bool) (Snapshot, error) {
	if !force {
		if snap, ok := s.cached(userID); ok {
			return snap, nil
		}
	}

	snap, err := s.build(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[string]cachedSnapshot)
	}
	s.cache[userID] = cachedSnapshot{snapshot: snap, storedAt: time.Now()}
	s.mu.Unlock()

	return snap, nil
}

// Invalidate drops a user's cached snapshot.
func (s *Service) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

func (s *Service) cached(userID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[userID]
	if !ok {
		return Snapshot{}, false
	}
	if time.Since(entry.storedAt) >= s.staleAfter() {
		delete(s.cache, userID)
		return Snapshot{}, false
	}
	return entry.snapshot, true
}

func (s *Service) staleAfter() time.Duration {
	if s.StaleAfter > 0 {
		return s.StaleAfter
	}
	return 30 * time.Second
}

func (s *Service) build(ctx context.Context, userID string) (Snapshot, error) {
	uploaded, err := s.Docs.ListUploadedBy(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	ids := make([]string, 0, len(uploaded))
	for _, doc := range uploaded {
		ids = append(ids, doc.ID)
	}
	counts, err := s.Comments.CountByDocuments(ctx, ids)
	if err != nil {
		return Snapshot{}, err
	}

	uploadedView := make([]UploadedDocument, 0, len(uploaded))
	for _, doc := range uploaded {
		views, err := s.Shares.ListForDocument(ctx, userID, doc.ID)
		if err != nil {
			return Snapshot{}, err
		}
		uploadedView = append(uploadedView, UploadedDocument{
			Document:     doc,
			Shares:       views,
			CommentCount: counts[doc.ID],
		})
	}

	shared, err := s.Docs.ListSharedWith(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	others, err := s.Users.ListOthers(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		GeneratedAt:  time.Now().UTC(),
		Uploaded:     uploadedView,
		SharedWithMe: shared,
		OtherUsers:   others,
	}, nil
}
