package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docshare-backend/internal/history"
	"docshare-backend/internal/shared/storage/db"
	"docshare-backend/internal/shared/storage/object"
	"docshare-backend/internal/shared/storage/object/local"
)

type fakeShares struct {
	created      map[string][]string
	resetVersion map[string]int
	deleted      []string
	sharedWith   map[string][]string
}

func newFakeShares() *fakeShares {
	return &fakeShares{
		created:      make(map[string][]string),
		resetVersion: make(map[string]int),
		sharedWith:   make(map[string][]string),
	}
}

func (f *fakeShares) CreateForRecipients(ctx context.Context, documentID string, recipientIDs []string, version int) error {
	f.created[documentID] = append(f.created[documentID], recipientIDs...)
	return nil
}

func (f *fakeShares) ResetForVersion(ctx context.Context, documentID string, version int) error {
	f.resetVersion[documentID] = version
	return nil
}

func (f *fakeShares) DeleteByDocument(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeShares) DocumentIDsSharedWith(ctx context.Context, userID string) ([]string, error) {
	return f.sharedWith[userID], nil
}

type fakeComments struct {
	deleted []string
}

func (f *fakeComments) DeleteByDocument(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
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

type failingStore struct {
	object.ObjectStore
	removeErr error
}

func (f failingStore) Remove(ctx context.Context, names []string) error {
	return f.removeErr
}

type testEnv struct {
	svc      *Service
	shares   *fakeShares
	comments *fakeComments
	history  *history.MemoryRepo
	storeDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	shares := newFakeShares()
	comments := &fakeComments{}
	histRepo := history.NewMemoryRepo()

	svc := &Service{
		Docs:     NewMemoryRepo(),
		Shares:   shares,
		Comments: comments,
		History:  histRepo,
		Users:    fakeDirectory{"u1": "alice", "u2": "bob"},
		Store:    local.New(dir, "/files"),
		Tx:       db.PassthroughRunner{},
	}
	return &testEnv{svc: svc, shares: shares, comments: comments, history: histRepo, storeDir: dir}
}

func TestCreateDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Q3 Report",
		FileName:     "report.pdf",
		Data:         []byte("not really a pdf"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if doc.CurrentVersion != 1 {
		t.Errorf("CurrentVersion = %d, want 1", doc.CurrentVersion)
	}
	if doc.Status != StatusPending {
		t.Errorf("Status = %q, want %q", doc.Status, StatusPending)
	}
	if !strings.HasPrefix(doc.FileURL, "/files/") {
		t.Errorf("FileURL = %q, want /files/ prefix", doc.FileURL)
	}
	if !strings.Contains(doc.FileURL, "_v1.pdf") {
		t.Errorf("FileURL = %q, want _v1.pdf suffix", doc.FileURL)
	}

	onDisk := filepath.Join(env.storeDir, filepath.Base(doc.FileURL))
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	if got := env.shares.created[doc.ID]; len(got) != 1 || got[0] != "u2" {
		t.Errorf("shares created = %v, want [u2]", got)
	}

	entries, err := env.history.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].ActionType != history.ActionInitialUpload || entries[0].Version != 1 {
		t.Errorf("history entry = %+v, want initial_upload v1", entries[0])
	}
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), CreateInput{
		UserID:   "u1",
		Title:    "   ",
		FileName: "report.pdf",
		Data:     []byte("data"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRecipientValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		recipients []string
	}{
		{"no recipients", nil},
		{"uploader as recipient", []string{"u1"}},
		{"uploader among recipients", []string{"u2", "u1"}},
		{"unknown recipient", []string{"ghost"}},
		{"empty recipient id", []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Create(ctx, CreateInput{
				UserID:       "u1",
				Title:        "Spec",
				FileName:     "spec.pdf",
				Data:         []byte("v1"),
				RecipientIDs: tc.recipients,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	// Nothing reaches the share layer or the store on a rejected create.
	if len(env.shares.created) != 0 {
		t.Errorf("shares created = %v, want none", env.shares.created)
	}
	files, err := os.ReadDir(env.storeDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("stored files = %d, want 0", len(files))
	}
}

func TestAddVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.docx",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := env.svc.AddVersion(ctx, AddVersionInput{
		UserID:     "u1",
		DocumentID: doc.ID,
		FileName:   "spec-v2.docx",
		Data:       []byte("v2"),
	})
	if err != nil {
		t.Fatalf("AddVersion: %v", err)
	}

	if updated.CurrentVersion != 2 {
		t.Errorf("CurrentVersion = %d, want 2", updated.CurrentVersion)
	}
	if updated.Status != StatusPending {
		t.Errorf("Status = %q, want %q", updated.Status, StatusPending)
	}
	if env.shares.resetVersion[doc.ID] != 2 {
		t.Errorf("shares reset to version %d, want 2", env.shares.resetVersion[doc.ID])
	}

	entries, _ := env.history.ListByDocument(ctx, doc.ID)
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	last := entries[1]
	if last.ActionType != history.ActionVersionUpdate || last.Version != 2 {
		t.Errorf("last history entry = %+v, want version_update v2", last)
	}
}

func TestAddVersionRequiresUploader(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.pdf",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.svc.AddVersion(ctx, AddVersionInput{
		UserID:     "u2",
		DocumentID: doc.ID,
		FileName:   "spec.pdf",
		Data:       []byte("v2"),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.pdf",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.svc.AddVersion(ctx, AddVersionInput{
		UserID:     "u1",
		DocumentID: doc.ID,
		FileName:   "spec.pdf",
		Data:       []byte("v2"),
	}); err != nil {
		t.Fatalf("AddVersion: %v", err)
	}

	if err := env.svc.Delete(ctx, "u1", doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.svc.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if len(env.shares.deleted) != 1 || env.shares.deleted[0] != doc.ID {
		t.Errorf("shares deleted = %v, want [%s]", env.shares.deleted, doc.ID)
	}
	if len(env.comments.deleted) != 1 {
		t.Errorf("comments deleted = %v, want one entry", env.comments.deleted)
	}
	entries, _ := env.history.ListByDocument(ctx, doc.ID)
	if len(entries) != 0 {
		t.Errorf("history entries after delete = %d, want 0", len(entries))
	}

	files, err := os.ReadDir(env.storeDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("stored files after delete = %d, want 0", len(files))
	}
}

func TestDeleteAbortsWhenStoreFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.pdf",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removeErr := errors.New("store unreachable")
	env.svc.Store = failingStore{ObjectStore: env.svc.Store, removeErr: removeErr}

	if err := env.svc.Delete(ctx, "u1", doc.ID); !errors.Is(err, removeErr) {
		t.Fatalf("err = %v, want the store error", err)
	}

	// No rows were touched.
	if _, err := env.svc.Get(ctx, doc.ID); err != nil {
		t.Errorf("Get after failed delete: %v", err)
	}
	if len(env.shares.deleted) != 0 {
		t.Errorf("shares deleted = %v, want none", env.shares.deleted)
	}
	entries, _ := env.history.ListByDocument(ctx, doc.ID)
	if len(entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(entries))
	}
}

func TestDeleteRequiresUploader(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.pdf",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := env.svc.Delete(ctx, "u2", doc.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestListSharedWith(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, CreateInput{
		UserID:       "u1",
		Title:        "Spec",
		FileName:     "spec.pdf",
		Data:         []byte("v1"),
		RecipientIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.shares.sharedWith["u2"] = []string{doc.ID}

	docs, err := env.svc.ListSharedWith(ctx, "u2")
	if err != nil {
		t.Fatalf("ListSharedWith: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != doc.ID {
		t.Fatalf("docs = %+v, want the shared document", docs)
	}
	if docs[0].UploaderName != "alice" {
		t.Errorf("UploaderName = %q, want alice", docs[0].UploaderName)
	}
}

func TestMemoryRepoVersionConflict(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	doc := Document{ID: "d1", UploadedBy: "u1", Status: StatusPending, CurrentVersion: 1}
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateVersion(ctx, "d1", "/files/a", "a.pdf", 0, 2, 1); err != nil {
		t.Fatalf("UpdateVersion: %v", err)
	}
	err := repo.UpdateVersion(ctx, "d1", "/files/b", "b.pdf", 0, 2, 1)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
}
