package history

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/history", h.list)
	rg.GET("/documents/:id/versions", h.versions)
}

type entryResponse struct {
	HistoryID      string    `json:"historyId"`
	ActionType     string    `json:"actionType"`
	ActionBy       string    `json:"actionBy"`
	ActionByName   string    `json:"actionByName,omitempty"`
	ActionDate     time.Time `json:"actionDate"`
	Version        int       `json:"version"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	NewStatus      string    `json:"newStatus,omitempty"`
	Comments       string    `json:"comments,omitempty"`
	FileURL        string    `json:"fileUrl,omitempty"`
}

func (h *Handler) list(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	entries, err := h.Svc.List(c.Request.Context(), documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list history", nil)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, entryResponse{
			HistoryID:      entry.ID,
			ActionType:     entry.ActionType,
			ActionBy:       entry.ActionBy,
			ActionByName:   entry.ActionByUsername,
			ActionDate:     entry.ActionDate,
			Version:        entry.Version,
			PreviousStatus: entry.PreviousStatus,
			NewStatus:      entry.NewStatus,
			Comments:       entry.Comments,
			FileURL:        entry.FileURL,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) versions(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	versions, err := h.Svc.Versions(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || isNotFound(err) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list versions", nil)
		return
	}
	respond.JSON(c, http.StatusOK, versions)
}

// isNotFound matches not-found errors from the documents package without
// importing it, keeping history free of upward dependencies.
func isNotFound(err error) bool {
	type notFounder interface{ NotFound() bool }
	var nf notFounder
	return errors.As(err, &nf) && nf.NotFound()
}
