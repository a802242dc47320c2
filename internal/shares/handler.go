package shares

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the shares service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches approval routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/approval", h.recordApproval)
	rg.GET("/documents/:id/shares", h.listShares)
}

type decisionRequest struct {
	Action  string `json:"action" binding:"required"`
	Reason  string `json:"reason"`
	Version int    `json:"version"`
}

type shareResponse struct {
	ShareID          string             `json:"shareId"`
	DocumentID       string             `json:"documentId"`
	SharedWithUserID string             `json:"sharedWithUserId"`
	SharedWithName   string             `json:"sharedWithName,omitempty"`
	CurrentVersion   int                `json:"currentVersion"`
	ApprovalStatus   string             `json:"approvalStatus"`
	IsApproved       bool               `json:"isApproved"`
	ApprovalDate     *time.Time         `json:"approvalDate,omitempty"`
	Approvals        []approvalResponse `json:"approvals,omitempty"`
}

type approvalResponse struct {
	Status     string    `json:"status"`
	ActionDate time.Time `json:"actionDate"`
	UserID     string    `json:"userId"`
	Reason     string    `json:"reason,omitempty"`
	Version    int       `json:"version"`
}

func (h *Handler) recordApproval(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "action is required", nil)
		return
	}
	c.Set("approvalAction", req.Action)

	result, err := h.Svc.RecordApproval(c.Request.Context(), DecisionInput{
		DocumentID: documentID,
		UserID:     userID,
		Action:     req.Action,
		Reason:     req.Reason,
		Version:    req.Version,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "unknown approval action", nil)
		case errors.Is(err, documents.ErrNotFound), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document is not shared with you", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "decision conflicts with the current state", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record decision", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"share":          toShareResponse(result.Share, nil),
		"documentStatus": result.DocumentStatus,
	})
}

func (h *Handler) listShares(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	views, err := h.Svc.ListForDocument(c.Request.Context(), userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, documents.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only the uploader may view shares", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list shares", nil)
		}
		return
	}

	resp := make([]shareResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, toShareResponse(view.SharedDocument, view.Approvals))
	}
	respond.OK(c, resp)
}

func toShareResponse(share SharedDocument, approvals []ApprovalEntry) shareResponse {
	resp := shareResponse{
		ShareID:          share.ID,
		DocumentID:       share.DocumentID,
		SharedWithUserID: share.SharedWithUserID,
		SharedWithName:   share.SharedWithName,
		CurrentVersion:   share.CurrentVersion,
		ApprovalStatus:   share.ApprovalStatus,
		IsApproved:       share.IsApproved,
		ApprovalDate:     share.ApprovalDate,
	}
	for _, entry := range approvals {
		resp.Approvals = append(resp.Approvals, approvalResponse{
			Status:     entry.Status,
			ActionDate: entry.ActionDate,
			UserID:     entry.UserID,
			Reason:     entry.Reason,
			Version:    entry.Version,
		})
	}
	return resp
}
