package documents

import "time"

// Document-level approval statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Document represents a titled, versioned file record with one uploader and
// an overall approval status aggregated from its recipients.
type Document struct {
	ID             string
	Title          string
	UploadedBy     string
	UploaderName   string
	FileURL        string
	FileName       string
	PageCount      int
	Status         string
	CurrentVersion int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
