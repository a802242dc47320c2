package comments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shared/metrics"
)

// DocumentsGateway resolves documents for validation and version
// defaulting. The documents repositories satisfy it.
type DocumentsGateway interface {
	GetByID(ctx context.Context, documentID string) (documents.Document, error)
}

// UserDirectory resolves user IDs to display names.
type UserDirectory interface {
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// AddInput is one new comment. Nil anchor fields leave the comment
// unanchored.
type AddInput struct {
	UserID     string
	DocumentID string
	Text       string
	PageNumber *int
	XPosition  *float64
	YPosition  *float64
	// Version the comment targets. Zero means the document's current
	// version.
	Version int
}

type Service struct {
	Repo  CommentsRepo
	Docs  DocumentsGateway
	Users UserDirectory
}

// Add validates and stores a comment. When anchored, the page must be
// one the document has and positions must fall within the page box; an
// unanchored comment carries no page or point at all.
func (s *Service) Add(ctx context.Context, in AddInput) (Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" || in.UserID == "" {
		return Comment{}, ErrInvalidInput
	}
	if in.PageNumber != nil && *in.PageNumber < 1 {
		return Comment{}, ErrInvalidInput
	}
	// A point anchor is both coordinates on a page, or nothing.
	if (in.XPosition == nil) != (in.YPosition == nil) {
		return Comment{}, ErrInvalidInput
	}
	if in.XPosition != nil {
		if in.PageNumber == nil {
			return Comment{}, ErrInvalidInput
		}
		if *in.XPosition < 0 || *in.XPosition > 100 || *in.YPosition < 0 || *in.YPosition > 100 {
			return Comment{}, ErrInvalidInput
		}
	}

	doc, err := s.Docs.GetByID(ctx, in.DocumentID)
	if err != nil {
		return Comment{}, err
	}
	if in.PageNumber != nil && doc.PageCount > 0 && *in.PageNumber > doc.PageCount {
		return Comment{}, ErrInvalidInput
	}

	version := in.Version
	if version == 0 {
		version = doc.CurrentVersion
	}
	if version < 1 || version > doc.CurrentVersion {
		return Comment{}, ErrInvalidInput
	}

	comment := Comment{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Text:        text,
		CommentedBy: in.UserID,
		PageNumber:  in.PageNumber,
		XPosition:   in.XPosition,
		YPosition:   in.YPosition,
		Version:     version,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, comment); err != nil {
		return Comment{}, err
	}

	metrics.IncCommentsAdded()
	return comment, nil
}

// List returns comments on one version of a document with commenter
// names resolved. Version zero means the current version.
func (s *Service) List(ctx context.Context, documentID string, version int) ([]Comment, error) {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		version = doc.CurrentVersion
	}

	list, err := s.Repo.ListByDocumentVersion(ctx, documentID, version)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCommenterNames(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) resolveCommenterNames(ctx context.Context, list []Comment) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		if !seen[c.CommentedBy] {
			seen[c.CommentedBy] = true
			ids = append(ids, c.CommentedBy)
		}
	}
	names, err := s.Users.UsernamesByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].CommenterName = names[list[i].CommentedBy]
	}
	return nil
}
