package comments

import "time"

// Comment is one remark, scoped to the document version it was written
// against. Anchors are optional: a comment may target a page, a point
// on a page, or nothing at all. Positions are percentages of the page
// box so anchors survive rendering at any zoom level.
type Comment struct {
	ID            string
	DocumentID    string
	Text          string
	CommentedBy   string
	CommenterName string
	PageNumber    *int
	XPosition     *float64
	YPosition     *float64
	Version       int
	CreatedAt     time.Time
}
