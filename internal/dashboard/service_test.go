package dashboard

import (
	"context"
	"testing"
	"time"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shares"
	"docshare-backend/internal/users"
)

type countingSource struct {
	calls int
	docs  []documents.Document
}

func (s *countingSource) ListUploadedBy(ctx context.Context, userID string) ([]documents.Document, error) {
	s.calls++
	return s.docs, nil
}

func (s *countingSource) ListSharedWith(ctx context.Context, userID string) ([]documents.Document, error) {
	return nil, nil
}

type stubShares struct{}

func (stubShares) ListForDocument(ctx context.Context, callerID, documentID string) ([]shares.ShareView, error) {
	return nil, nil
}

type stubComments struct{}

func (stubComments) CountByDocuments(ctx context.Context, documentIDs []string) (map[string]int, error) {
	return map[string]int{}, nil
}

type stubUsers struct{}

func (stubUsers) ListOthers(ctx context.Context, callerID string) ([]users.User, error) {
	return nil, nil
}

func newCachedService(source *countingSource, ttl time.Duration) *Service {
	return &Service{
		Docs:       source,
		Shares:     stubShares{},
		Comments:   stubComments{},
		Users:      stubUsers{},
		StaleAfter: ttl,
	}
}

func TestSnapshotServedFromCache(t *testing.T) {
	source := &countingSource{}
	svc := newCachedService(source, time.Minute)
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1 (second read cached)", source.calls)
	}

	// Another user gets their own snapshot.
	if _, err := svc.Snapshot(ctx, "u2", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2", source.calls)
	}
}

func TestSnapshotForceBypassesCache(t *testing.T) {
	source := &countingSource{}
	svc := newCachedService(source, time.Minute)
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := svc.Snapshot(ctx, "u1", true); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2 (force rebuild)", source.calls)
	}
}

func TestSnapshotExpires(t *testing.T) {
	source := &countingSource{}
	svc := newCachedService(source, 10*time.Millisecond)
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2 after expiry", source.calls)
	}
}

func TestInvalidate(t *testing.T) {
	source := &countingSource{}
	svc := newCachedService(source, time.Minute)
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	svc.Invalidate("u1")
	if _, err := svc.Snapshot(ctx, "u1", false); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2 after invalidation", source.calls)
	}
}
