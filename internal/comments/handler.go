package comments

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the comments service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches comment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/comments", h.add)
	rg.GET("/documents/:id/comments", h.list)
	rg.GET("/documents/:id/comments/export", h.exportCSV)
}

type addRequest struct {
	Text       string   `json:"text" binding:"required"`
	PageNumber *int     `json:"pageNumber"`
	XPosition  *float64 `json:"xPosition"`
	YPosition  *float64 `json:"yPosition"`
	Version    int      `json:"version"`
}

type commentResponse struct {
	CommentID     string    `json:"commentId"`
	DocumentID    string    `json:"documentId"`
	Text          string    `json:"text"`
	CommentedBy   string    `json:"commentedBy"`
	CommenterName string    `json:"commenterName,omitempty"`
	PageNumber    *int      `json:"pageNumber"`
	XPosition     *float64  `json:"xPosition"`
	YPosition     *float64  `json:"yPosition"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *Handler) add(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "text is required", nil)
		return
	}

	comment, err := h.Svc.Add(c.Request.Context(), AddInput{
		UserID:     userID,
		DocumentID: documentID,
		Text:       req.Text,
		PageNumber: req.PageNumber,
		XPosition:  req.XPosition,
		YPosition:  req.YPosition,
		Version:    req.Version,
	})
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "comment failed validation", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add comment", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toCommentResponse(comment))
}

func (h *Handler) list(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	version, ok := versionQuery(c)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "version must be a positive integer", nil)
		return
	}

	list, err := h.Svc.List(c.Request.Context(), documentID, version)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list comments", nil)
		return
	}

	resp := make([]commentResponse, 0, len(list))
	for _, comment := range list {
		resp = append(resp, toCommentResponse(comment))
	}
	respond.OK(c, resp)
}

func (h *Handler) exportCSV(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	version, ok := versionQuery(c)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "version must be a positive integer", nil)
		return
	}

	data, err := h.Svc.ExportCSV(c.Request.Context(), documentID, version)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export comments", nil)
		return
	}

	fileName := fmt.Sprintf("comments_%s.csv", documentID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv", data)
}

func versionQuery(c *gin.Context) (int, bool) {
	raw := c.Query("version")
	if raw == "" {
		return 0, true
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		return 0, false
	}
	return version, true
}

func toCommentResponse(comment Comment) commentResponse {
	return commentResponse{
		CommentID:     comment.ID,
		DocumentID:    comment.DocumentID,
		Text:          comment.Text,
		CommentedBy:   comment.CommentedBy,
		CommenterName: comment.CommenterName,
		PageNumber:    comment.PageNumber,
		XPosition:     comment.XPosition,
		YPosition:     comment.YPosition,
		Version:       comment.Version,
		CreatedAt:     comment.CreatedAt,
	}
}
