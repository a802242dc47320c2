package shares

import "time"

// Approval actions accepted from recipients.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionRevert  = "revert"
)

// SharedDocument is one recipient's standing on a document. There is at
// most one row per (document, recipient) pair; decisions are recorded
// against it and audited in ApprovalEntry rows.
type SharedDocument struct {
	ID               string
	DocumentID       string
	SharedWithUserID string
	SharedWithName   string
	CurrentVersion   int
	ApprovalStatus   string
	IsApproved       bool
	ApprovalDate     *time.Time
}

// ApprovalEntry is one recorded decision. Entries are append-only.
type ApprovalEntry struct {
	ID         string
	ShareID    string
	Status     string
	ActionDate time.Time
	UserID     string
	Reason     string
	Version    int
}
