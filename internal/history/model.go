package history

import "time"

// Action types recorded in the audit trail.
const (
	ActionInitialUpload = "initial_upload"
	ActionVersionUpdate = "version_update"
	ActionApprove       = "approve"
	ActionReject        = "reject"
	ActionRevert        = "revert"
)

// Entry is one immutable audit record of a lifecycle-changing action.
type Entry struct {
	ID               string
	DocumentID       string
	ActionType       string
	ActionBy         string
	ActionByUsername string
	ActionDate       time.Time
	Version          int
	PreviousStatus   string
	NewStatus        string
	Comments         string
	FileURL          string
}

// Version is one entry in a document's version listing.
type Version struct {
	Version int    `json:"version"`
	FileURL string `json:"fileUrl"`
}

// IsUpload reports whether the entry records a file upload (initial or update).
func (e Entry) IsUpload() bool {
	return e.ActionType == ActionInitialUpload || e.ActionType == ActionVersionUpdate
}
