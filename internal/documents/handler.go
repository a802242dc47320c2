package documents

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
	"docshare-backend/internal/shared/util"
)

const maxUploadBytes = 20 << 20

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.listMine)
	// A literal "shared" segment would collide with the :id wildcard in
	// gin's route tree, so the shared listing lives on its own path.
	rg.GET("/shared-documents", h.listShared)
	rg.GET("/documents/:id", h.get)
	rg.POST("/documents/:id/versions", h.addVersion)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	data, fileName, err := readUpload(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	doc, err := h.Svc.Create(c.Request.Context(), CreateInput{
		UserID:       userID,
		Title:        c.PostForm("title"),
		FileName:     fileName,
		Data:         data,
		RecipientIDs: recipientIDs(c),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "title, file and at least one valid recipient are required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create document", nil)
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) listMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	docs, err := h.Svc.ListUploadedBy(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.OK(c, toResponses(docs))
}

func (h *Handler) listShared(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	docs, err := h.Svc.ListSharedWith(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list shared documents", nil)
		return
	}
	respond.OK(c, toResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	doc, err := h.Svc.Get(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) addVersion(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	data, fileName, err := readUpload(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	doc, err := h.Svc.AddVersion(c.Request.Context(), AddVersionInput{
		UserID:     userID,
		DocumentID: documentID,
		FileName:   fileName,
		Data:       data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only the uploader may add versions", nil)
		case errors.Is(err, ErrVersionConflict):
			respond.Error(c, http.StatusConflict, "version_conflict", "document was updated concurrently, retry", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add version", nil)
		}
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), userID, documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only the uploader may delete", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > maxUploadBytes {
		return nil, "", errors.New("file exceeds the upload size limit")
	}
	fileName, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadBytes {
		return nil, "", errors.New("file exceeds the upload size limit")
	}
	return data, fileName, nil
}

// recipientIDs accepts repeated "recipients" form fields as well as a
// single comma separated value.
func recipientIDs(c *gin.Context) []string {
	values := c.PostFormArray("recipients")
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
