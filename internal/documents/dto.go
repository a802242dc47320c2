package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID     string    `json:"documentId"`
	Title          string    `json:"title"`
	UploadedBy     string    `json:"uploadedBy"`
	UploaderName   string    `json:"uploaderName,omitempty"`
	FileURL        string    `json:"fileUrl"`
	FileName       string    `json:"fileName"`
	PageCount      int       `json:"pageCount,omitempty"`
	Status         string    `json:"status"`
	CurrentVersion int       `json:"currentVersion"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		UploadedBy:     doc.UploadedBy,
		UploaderName:   doc.UploaderName,
		FileURL:        doc.FileURL,
		FileName:       doc.FileName,
		PageCount:      doc.PageCount,
		Status:         doc.Status,
		CurrentVersion: doc.CurrentVersion,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func toResponses(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}
