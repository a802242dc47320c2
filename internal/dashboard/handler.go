package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
	"docshare-backend/internal/shares"
)

// Handler wires HTTP handlers to the dashboard service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the dashboard route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.snapshot)
}

type snapshotResponse struct {
	GeneratedAt  time.Time             `json:"generatedAt"`
	Uploaded     []uploadedDocResponse `json:"uploaded"`
	SharedWithMe []docSummary          `json:"sharedWithMe"`
	OtherUsers   []userSummary         `json:"otherUsers"`
}

type uploadedDocResponse struct {
	docSummary
	CommentCount int            `json:"commentCount"`
	Shares       []shareSummary `json:"shares"`
}

type docSummary struct {
	DocumentID     string    `json:"documentId"`
	Title          string    `json:"title"`
	UploaderName   string    `json:"uploaderName,omitempty"`
	FileURL        string    `json:"fileUrl"`
	FileName       string    `json:"fileName"`
	Status         string    `json:"status"`
	CurrentVersion int       `json:"currentVersion"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type shareSummary struct {
	SharedWithUserID string     `json:"sharedWithUserId"`
	SharedWithName   string     `json:"sharedWithName,omitempty"`
	ApprovalStatus   string     `json:"approvalStatus"`
	IsApproved       bool       `json:"isApproved"`
	ApprovalDate     *time.Time `json:"approvalDate,omitempty"`
}

type userSummary struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (h *Handler) snapshot(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	force := c.Query("refresh") == "true"
	snap, err := h.Svc.Snapshot(c.Request.Context(), userID, force)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build dashboard", nil)
		return
	}
	respond.OK(c, toSnapshotResponse(snap))
}

func toSnapshotResponse(snap Snapshot) snapshotResponse {
	resp := snapshotResponse{
		GeneratedAt:  snap.GeneratedAt,
		Uploaded:     make([]uploadedDocResponse, 0, len(snap.Uploaded)),
		SharedWithMe: make([]docSummary, 0, len(snap.SharedWithMe)),
		OtherUsers:   make([]userSummary, 0, len(snap.OtherUsers)),
	}
	for _, up := range snap.Uploaded {
		resp.Uploaded = append(resp.Uploaded, uploadedDocResponse{
			docSummary:   toDocSummary(up.Document),
			CommentCount: up.CommentCount,
			Shares:       toShareSummaries(up.Shares),
		})
	}
	for _, doc := range snap.SharedWithMe {
		resp.SharedWithMe = append(resp.SharedWithMe, toDocSummary(doc))
	}
	for _, user := range snap.OtherUsers {
		resp.OtherUsers = append(resp.OtherUsers, userSummary{UserID: user.ID, Username: user.Username})
	}
	return resp
}

func toDocSummary(doc documents.Document) docSummary {
	return docSummary{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		UploaderName:   doc.UploaderName,
		FileURL:        doc.FileURL,
		FileName:       doc.FileName,
		Status:         doc.Status,
		CurrentVersion: doc.CurrentVersion,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func toShareSummaries(views []shares.ShareView) []shareSummary {
	out := make([]shareSummary, 0, len(views))
	for _, view := range views {
		out = append(out, shareSummary{
			SharedWithUserID: view.SharedWithUserID,
			SharedWithName:   view.SharedWithName,
			ApprovalStatus:   view.ApprovalStatus,
			IsApproved:       view.IsApproved,
			ApprovalDate:     view.ApprovalDate,
		})
	}
	return out
}
