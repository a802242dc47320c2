package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := config.Config{
		Port:              "0",
		Env:               "test",
		CORSAllowOrigin:   []string{"http://localhost:3000"},
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		PublicBaseURL:     "/files",
		DashboardCacheTTL: time.Second,
	}
	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func do(t *testing.T, app *App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %q: %v", rec.Body.String(), err)
	}
	return out
}

func uploadRequest(t *testing.T, path, userID, title, fileName string, data []byte, recipients ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if title != "" {
		if err := w.WriteField("title", title); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, r := range recipients {
		if err := w.WriteField("recipients", r); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-Id", userID)
	return req
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	if _, err := app.Users.Register(context.Background(), "alice", "correct horse battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	body := strings.NewReader(`{"username":"alice","password":"correct horse battery"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := jsonBody(t, rec)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatal("token is empty")
	}

	// The issued token authenticates API calls.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("documents status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRejectsMissingIdentity(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := do(t, app, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	owner, err := app.Users.Register(ctx, "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Register alice: %v", err)
	}
	reviewer, err := app.Users.Register(ctx, "bob", "correct horse battery")
	if err != nil {
		t.Fatalf("Register bob: %v", err)
	}

	// Upload with one recipient.
	rec := do(t, app, uploadRequest(t, "/api/v1/documents", owner.ID, "Q3 Report", "report.pdf", []byte("%PDF-not-really"), reviewer.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := jsonBody(t, rec)
	docID, _ := created["documentId"].(string)
	if docID == "" {
		t.Fatal("documentId missing in response")
	}
	if created["status"] != "pending" || created["currentVersion"] != float64(1) {
		t.Errorf("created = %v", created)
	}

	// Reviewer sees it under shared documents.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shared-documents", nil)
	req.Header.Set("X-User-Id", reviewer.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), docID) {
		t.Fatalf("shared list status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Reviewer approves; single recipient, so the document approves.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/approval", docID),
		strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", reviewer.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approval status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := jsonBody(t, rec); resp["documentStatus"] != "approved" {
		t.Errorf("documentStatus = %v, want approved", resp["documentStatus"])
	}

	// A second approve is a conflict.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/approval", docID),
		strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", reviewer.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double approval status = %d, want 409", rec.Code)
	}

	// New version resets the workflow.
	rec = do(t, app, uploadRequest(t, fmt.Sprintf("/api/v1/documents/%s/versions", docID), owner.ID, "", "report-v2.pdf", []byte("%PDF-v2")))
	if rec.Code != http.StatusOK {
		t.Fatalf("add version status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := jsonBody(t, rec)
	if updated["currentVersion"] != float64(2) || updated["status"] != "pending" {
		t.Errorf("updated = %v", updated)
	}

	// Only the uploader may add versions.
	rec = do(t, app, uploadRequest(t, fmt.Sprintf("/api/v1/documents/%s/versions", docID), reviewer.ID, "", "rogue.pdf", []byte("x")))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-uploader version status = %d, want 403", rec.Code)
	}

	// History shows upload, approval, version update.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s/history", docID), nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var entries []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("history entries = %d, want 3", len(entries))
	}

	// Versions list both revisions, newest first.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s/versions", docID), nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("versions status = %d", rec.Code)
	}
	var versions []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &versions); err != nil {
		t.Fatalf("unmarshal versions: %v", err)
	}
	if len(versions) != 2 || versions[0]["version"] != float64(2) {
		t.Fatalf("versions = %v, want [2 1]", versions)
	}

	// Delete and verify it is gone.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+docID, nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+docID, nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCommentRoundTrip(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	owner, err := app.Users.Register(ctx, "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	reviewer, err := app.Users.Register(ctx, "bob", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	rec := do(t, app, uploadRequest(t, "/api/v1/documents", owner.ID, "Draft", "draft.pdf", []byte("%PDF-x"), reviewer.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	docID := jsonBody(t, rec)["documentId"].(string)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/comments", docID),
		strings.NewReader(`{"text":"unclear wording","pageNumber":1,"xPosition":40,"yPosition":60}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", reviewer.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add comment status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s/comments", docID), nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal comments: %v", err)
	}
	if len(list) != 1 || list[0]["commenterName"] != "bob" {
		t.Fatalf("comments = %v", list)
	}

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s/comments/export", docID), nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.HasPrefix(string(body), "User,Page,Comment,Date,Version") {
		t.Errorf("export body = %q", string(body))
	}
}

func TestDashboardSnapshot(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	owner, err := app.Users.Register(ctx, "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	reviewer, err := app.Users.Register(ctx, "bob", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	rec := do(t, app, uploadRequest(t, "/api/v1/documents", owner.ID, "Draft", "draft.pdf", []byte("%PDF-x"), reviewer.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("X-User-Id", owner.ID)
	rec = do(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %s", rec.Code, rec.Body.String())
	}

	snap := jsonBody(t, rec)
	uploaded, _ := snap["uploaded"].([]any)
	if len(uploaded) != 1 {
		t.Fatalf("uploaded = %v, want one document", snap["uploaded"])
	}
	others, _ := snap["otherUsers"].([]any)
	if len(others) != 1 {
		t.Fatalf("otherUsers = %v, want bob only", snap["otherUsers"])
	}
}

func TestHealthIsPublic(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "docshare_documents_created_total") {
		t.Errorf("metrics body missing counter: %s", rec.Body.String())
	}
}
