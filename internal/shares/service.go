package shares

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/history"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/storage/db"
)

// DocumentsGateway is the slice of the documents package the shares
// service needs. The documents repositories satisfy it.
type DocumentsGateway interface {
	GetByID(ctx context.Context, documentID string) (documents.Document, error)
	SetStatus(ctx context.Context, documentID, status string) error
}

// UserDirectory resolves user IDs to display names.
type UserDirectory interface {
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// DecisionInput is one recipient decision against a document.
type DecisionInput struct {
	DocumentID string
	UserID     string
	Action     string
	Reason     string
	// Version is the document version the client decided on. Zero
	// means "current"; any other stale value is rejected.
	Version int
}

// DecisionResult reports the share state and the derived document
// status after a decision.
type DecisionResult struct {
	Share          SharedDocument
	DocumentStatus string
}

// ShareView is a share row with its approval trail, for the uploader's
// per-recipient status view.
type ShareView struct {
	SharedDocument
	Approvals []ApprovalEntry
}

type Service struct {
	Repo    SharesRepo
	Docs    DocumentsGateway
	History history.Repo
	Users   UserDirectory
	Tx      db.TxRunner
}

// RecordApproval applies a recipient decision: validates the
// transition, appends an audit entry, updates the share row and
// recomputes the document-level status. A document is approved only
// while every share is approved; when unanimity breaks it returns to
// pending. Rejections never surface at the document level.
func (s *Service) RecordApproval(ctx context.Context, in DecisionInput) (DecisionResult, error) {
	newStatus, err := statusForAction(in.Action)
	if err != nil {
		return DecisionResult{}, err
	}

	doc, err := s.Docs.GetByID(ctx, in.DocumentID)
	if err != nil {
		return DecisionResult{}, err
	}
	if in.Version != 0 && in.Version != doc.CurrentVersion {
		return DecisionResult{}, ErrConflict
	}

	share, err := s.Repo.GetByDocumentAndUser(ctx, in.DocumentID, in.UserID)
	if err != nil {
		return DecisionResult{}, err
	}
	if err := validateTransition(share.ApprovalStatus, in.Action); err != nil {
		return DecisionResult{}, err
	}

	now := time.Now().UTC()
	var approvalDate *time.Time
	if in.Action != ActionRevert {
		approvalDate = &now
	}

	var docStatus string
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entry := ApprovalEntry{
			ID:         uuid.NewString(),
			ShareID:    share.ID,
			Status:     newStatus,
			ActionDate: now,
			UserID:     in.UserID,
			Reason:     in.Reason,
			Version:    doc.CurrentVersion,
		}
		if err := s.Repo.AppendApproval(ctx, entry); err != nil {
			return fmt.Errorf("append approval: %w", err)
		}
		if err := s.Repo.UpdateDecision(ctx, share.ID, newStatus, newStatus == statusApproved, approvalDate, doc.CurrentVersion); err != nil {
			return fmt.Errorf("update share: %w", err)
		}

		docStatus, err = s.recomputeDocumentStatus(ctx, doc)
		if err != nil {
			return err
		}

		histEntry := history.Entry{
			ID:             uuid.NewString(),
			DocumentID:     doc.ID,
			ActionType:     historyAction(in.Action),
			ActionBy:       in.UserID,
			ActionDate:     now,
			Version:        doc.CurrentVersion,
			PreviousStatus: share.ApprovalStatus,
			NewStatus:      newStatus,
			Comments:       in.Reason,
		}
		if err := s.History.Append(ctx, histEntry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return DecisionResult{}, err
	}

	share.ApprovalStatus = newStatus
	share.IsApproved = newStatus == statusApproved
	share.ApprovalDate = approvalDate
	share.CurrentVersion = doc.CurrentVersion

	metrics.IncDecisionsRecorded()
	return DecisionResult{Share: share, DocumentStatus: docStatus}, nil
}

// ListForDocument returns the per-recipient status view with approval
// trails. Only the uploader may see it.
func (s *Service) ListForDocument(ctx context.Context, callerID, documentID string) ([]ShareView, error) {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.UploadedBy != callerID {
		return nil, documents.ErrForbidden
	}

	rows, err := s.Repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	approvals, err := s.Repo.ListApprovalsByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.SharedWithUserID] {
			seen[row.SharedWithUserID] = true
			ids = append(ids, row.SharedWithUserID)
		}
	}
	names, err := s.Users.UsernamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ShareView, 0, len(rows))
	for _, row := range rows {
		row.SharedWithName = names[row.SharedWithUserID]
		out = append(out, ShareView{SharedDocument: row, Approvals: approvals[row.ID]})
	}
	return out, nil
}

func (s *Service) recomputeDocumentStatus(ctx context.Context, doc documents.Document) (string, error) {
	rows, err := s.Repo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return "", fmt.Errorf("list shares: %w", err)
	}

	allApproved := len(rows) > 0
	for _, row := range rows {
		if !row.IsApproved {
			allApproved = false
			break
		}
	}

	switch {
	case allApproved && doc.Status != statusApproved:
		if err := s.Docs.SetStatus(ctx, doc.ID, statusApproved); err != nil {
			return "", fmt.Errorf("set document status: %w", err)
		}
		return statusApproved, nil
	case !allApproved && doc.Status == statusApproved:
		if err := s.Docs.SetStatus(ctx, doc.ID, statusPending); err != nil {
			return "", fmt.Errorf("set document status: %w", err)
		}
		return statusPending, nil
	default:
		if allApproved {
			return statusApproved, nil
		}
		return doc.Status, nil
	}
}

func statusForAction(action string) (string, error) {
	switch action {
	case ActionApprove:
		return statusApproved, nil
	case ActionReject:
		return statusRejected, nil
	case ActionRevert:
		return statusPending, nil
	default:
		return "", ErrInvalidAction
	}
}

func validateTransition(current, action string) error {
	switch action {
	case ActionApprove, ActionReject:
		if current != statusPending {
			return ErrConflict
		}
	case ActionRevert:
		if current != statusApproved && current != statusRejected {
			return ErrConflict
		}
	}
	return nil
}

func historyAction(action string) string {
	switch action {
	case ActionApprove:
		return history.ActionApprove
	case ActionReject:
		return history.ActionReject
	default:
		return history.ActionRevert
	}
}
