package documents

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"docshare-backend/internal/history"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/storage/db"
	"docshare-backend/internal/shared/storage/object"
	"docshare-backend/internal/shared/util"
)

// SharesGateway is the slice of the shares package the documents service needs.
type SharesGateway interface {
	CreateForRecipients(ctx context.Context, documentID string, recipientIDs []string, version int) error
	ResetForVersion(ctx context.Context, documentID string, version int) error
	DeleteByDocument(ctx context.Context, documentID string) error
	DocumentIDsSharedWith(ctx context.Context, userID string) ([]string, error)
}

// CommentsGateway removes comment rows when a document is deleted.
type CommentsGateway interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// UserDirectory resolves user IDs to display names.
type UserDirectory interface {
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// PageCounter reports how many pages an uploaded file has, or 0 when
// the format is not paginated.
type PageCounter interface {
	PageCount(data []byte, fileName string) int
}

// CreateInput carries everything needed to create a document with its
// first version.
type CreateInput struct {
	UserID       string
	Title        string
	FileName     string
	Data         []byte
	RecipientIDs []string
}

// AddVersionInput carries a new file revision for an existing document.
type AddVersionInput struct {
	UserID     string
	DocumentID string
	FileName   string
	Data       []byte
}

type Service struct {
	Docs     DocumentsRepo
	Shares   SharesGateway
	Comments CommentsGateway
	History  history.Repo
	Users    UserDirectory
	Store    object.ObjectStore
	Pages    PageCounter
	Tx       db.TxRunner
}

// Create stores the uploaded file, inserts the document at version 1,
// records the initial history entry and creates a pending share for
// every recipient. At least one recipient is required, recipients must
// exist and the uploader cannot share with themself.
func (s *Service) Create(ctx context.Context, in CreateInput) (Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Document{}, ErrInvalidInput
	}
	if in.UserID == "" || in.FileName == "" || len(in.Data) == 0 {
		return Document{}, ErrInvalidInput
	}
	if err := s.checkRecipients(ctx, in.UserID, in.RecipientIDs); err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	blobName := blobName(now, 1, in.FileName)
	fileURL, size, _, err := s.Store.Save(ctx, blobName, bytes.NewReader(in.Data))
	if err != nil {
		return Document{}, fmt.Errorf("save file: %w", err)
	}

	doc := Document{
		ID:             uuid.NewString(),
		Title:          title,
		UploadedBy:     in.UserID,
		FileURL:        fileURL,
		FileName:       in.FileName,
		PageCount:      s.countPages(in.Data, in.FileName),
		Status:         StatusPending,
		CurrentVersion: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Docs.Create(ctx, doc); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		entry := history.Entry{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			ActionType: history.ActionInitialUpload,
			ActionBy:   in.UserID,
			ActionDate: now,
			Version:    1,
			NewStatus:  StatusPending,
			Comments:   "Initial version",
			FileURL:    fileURL,
		}
		if err := s.History.Append(ctx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if err := s.Shares.CreateForRecipients(ctx, doc.ID, in.RecipientIDs, 1); err != nil {
			return fmt.Errorf("create shares: %w", err)
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}

	metrics.IncDocumentsCreated()
	metrics.ObserveUploadSizeBytes(float64(size))
	return doc, nil
}

// AddVersion uploads a new revision of the document. Only the uploader
// may add versions; concurrent updates against the same base version
// fail with ErrVersionConflict.
func (s *Service) AddVersion(ctx context.Context, in AddVersionInput) (Document, error) {
	if in.UserID == "" || in.DocumentID == "" || in.FileName == "" || len(in.Data) == 0 {
		return Document{}, ErrInvalidInput
	}

	doc, err := s.Docs.GetByID(ctx, in.DocumentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UploadedBy != in.UserID {
		return Document{}, ErrForbidden
	}

	now := time.Now().UTC()
	newVersion := doc.CurrentVersion + 1
	blobName := blobName(now, newVersion, in.FileName)
	fileURL, size, _, err := s.Store.Save(ctx, blobName, bytes.NewReader(in.Data))
	if err != nil {
		return Document{}, fmt.Errorf("save file: %w", err)
	}
	pageCount := s.countPages(in.Data, in.FileName)

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Docs.UpdateVersion(ctx, doc.ID, fileURL, in.FileName, pageCount, newVersion, doc.CurrentVersion); err != nil {
			return err
		}
		if err := s.Shares.ResetForVersion(ctx, doc.ID, newVersion); err != nil {
			return fmt.Errorf("reset shares: %w", err)
		}
		entry := history.Entry{
			ID:             uuid.NewString(),
			DocumentID:     doc.ID,
			ActionType:     history.ActionVersionUpdate,
			ActionBy:       in.UserID,
			ActionDate:     now,
			Version:        newVersion,
			PreviousStatus: doc.Status,
			NewStatus:      StatusPending,
			Comments:       fmt.Sprintf("Updated to version %d", newVersion),
			FileURL:        fileURL,
		}
		if err := s.History.Append(ctx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}

	doc.FileURL = fileURL
	doc.FileName = in.FileName
	doc.PageCount = pageCount
	doc.Status = StatusPending
	doc.CurrentVersion = newVersion
	doc.UpdatedAt = now

	metrics.IncVersionsAdded()
	metrics.ObserveUploadSizeBytes(float64(size))
	return doc, nil
}

// Delete removes a document, its stored files, shares, comments and
// history. Only the uploader may delete.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UploadedBy != userID {
		return ErrForbidden
	}

	urls, err := s.History.FileURLs(ctx, documentID)
	if err != nil {
		return fmt.Errorf("list file urls: %w", err)
	}
	names := make([]string, 0, len(urls)+1)
	seen := make(map[string]bool, len(urls)+1)
	for _, u := range append(urls, doc.FileURL) {
		name := path.Base(u)
		if name == "" || name == "." || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	// Blobs go first: an unreachable store aborts the delete so no
	// object is ever orphaned by removed rows.
	if err := s.Store.Remove(ctx, names); err != nil {
		return fmt.Errorf("remove files: %w", err)
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Shares.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("delete shares: %w", err)
		}
		if err := s.Comments.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := s.History.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if err := s.Docs.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncDocumentsDeleted()
	return nil
}

// Get fetches a single document with the uploader's display name resolved.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	docs := []Document{doc}
	if err := s.resolveUploaderNames(ctx, docs); err != nil {
		return Document{}, err
	}
	return docs[0], nil
}

// ListUploadedBy lists the caller's own documents, newest first.
func (s *Service) ListUploadedBy(ctx context.Context, userID string) ([]Document, error) {
	docs, err := s.Docs.ListUploadedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveUploaderNames(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListSharedWith lists documents shared with the user, newest first.
func (s *Service) ListSharedWith(ctx context.Context, userID string) ([]Document, error) {
	ids, err := s.Shares.DocumentIDsSharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}
	docs, err := s.Docs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.resolveUploaderNames(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// VersionInfo reports the current version and file URL of a document.
func (s *Service) VersionInfo(ctx context.Context, documentID string) (history.DocumentInfo, error) {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return history.DocumentInfo{}, err
	}
	return history.DocumentInfo{CurrentVersion: doc.CurrentVersion, FileURL: doc.FileURL}, nil
}

// checkRecipients rejects an empty recipient list, the uploader's own
// ID, and any ID the user directory does not know.
func (s *Service) checkRecipients(ctx context.Context, uploaderID string, recipientIDs []string) error {
	if len(recipientIDs) == 0 {
		return ErrInvalidInput
	}
	for _, id := range recipientIDs {
		if id == "" || id == uploaderID {
			return ErrInvalidInput
		}
	}
	names, err := s.Users.UsernamesByID(ctx, recipientIDs)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}
	for _, id := range recipientIDs {
		if _, ok := names[id]; !ok {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *Service) resolveUploaderNames(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if !seen[d.UploadedBy] {
			seen[d.UploadedBy] = true
			ids = append(ids, d.UploadedBy)
		}
	}
	names, err := s.Users.UsernamesByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range docs {
		docs[i].UploaderName = names[docs[i].UploadedBy]
	}
	return nil
}

func (s *Service) countPages(data []byte, fileName string) int {
	if s.Pages == nil {
		return 0
	}
	return s.Pages.PageCount(data, fileName)
}

func blobName(now time.Time, version int, fileName string) string {
	return fmt.Sprintf("%d_v%d%s", now.UnixMilli(), version, util.FileExtension(fileName))
}
