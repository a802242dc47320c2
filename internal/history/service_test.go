package history

import (
	"context"
	"testing"
	"time"
)

type fakeLookup map[string]DocumentInfo

func (f fakeLookup) VersionInfo(ctx context.Context, documentID string) (DocumentInfo, error) {
	info, ok := f[documentID]
	if !ok {
		return DocumentInfo{}, ErrNotFound
	}
	return info, nil
}

type fakeDirectory map[string]string

func (f fakeDirectory) UsernamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := f[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func TestListResolvesUsernames(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{ID: "h1", DocumentID: "doc-1", ActionType: ActionInitialUpload, ActionBy: "u1", ActionDate: base, Version: 1},
		{ID: "h2", DocumentID: "doc-1", ActionType: ActionApprove, ActionBy: "u2", ActionDate: base.Add(time.Hour), Version: 1},
	}
	for _, entry := range entries {
		if err := repo.Append(ctx, entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	svc := &Service{
		Repo:  repo,
		Docs:  fakeLookup{"doc-1": {CurrentVersion: 1, FileURL: "/files/a.pdf"}},
		Users: fakeDirectory{"u1": "alice", "u2": "bob"},
	}

	got, err := svc.List(ctx, "doc-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].ActionByUsername != "alice" || got[1].ActionByUsername != "bob" {
		t.Errorf("usernames = %q, %q, want alice, bob", got[0].ActionByUsername, got[1].ActionByUsername)
	}
	if !got[0].ActionDate.Before(got[1].ActionDate) {
		t.Error("entries not in chronological order")
	}
}

func TestVersionsDerivation(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	uploads := []Entry{
		{ID: "h1", DocumentID: "doc-1", ActionType: ActionInitialUpload, ActionBy: "u1", ActionDate: base, Version: 1, FileURL: "/files/v1.pdf"},
		{ID: "h2", DocumentID: "doc-1", ActionType: ActionVersionUpdate, ActionBy: "u1", ActionDate: base.Add(time.Hour), Version: 2, FileURL: "/files/v2.pdf"},
		{ID: "h3", DocumentID: "doc-1", ActionType: ActionApprove, ActionBy: "u2", ActionDate: base.Add(2 * time.Hour), Version: 2},
	}
	for _, entry := range uploads {
		if err := repo.Append(ctx, entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	svc := &Service{
		Repo: repo,
		Docs: fakeLookup{"doc-1": {CurrentVersion: 3, FileURL: "/files/v3.pdf"}},
	}

	versions, err := svc.Versions(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}

	want := []Version{
		{Version: 3, FileURL: "/files/v3.pdf"},
		{Version: 2, FileURL: "/files/v2.pdf"},
		{Version: 1, FileURL: "/files/v1.pdf"},
	}
	if len(versions) != len(want) {
		t.Fatalf("versions = %+v, want %+v", versions, want)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Errorf("versions[%d] = %+v, want %+v", i, versions[i], want[i])
		}
	}
}

func TestVersionsSynthesizesInitial(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		Docs: fakeLookup{"doc-1": {CurrentVersion: 2, FileURL: "/files/v2.pdf"}},
	}

	versions, err := svc.Versions(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %+v, want v2 and a synthesized v1", versions)
	}
	if versions[0].Version != 2 || versions[1].Version != 1 {
		t.Errorf("versions = %+v, want [2 1]", versions)
	}
}
