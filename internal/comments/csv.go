package comments

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"
)

var csvHeader = []string{"User", "Page", "Comment", "Date", "Version"}

// ExportCSV renders the comments of one document version as CSV with a
// header row. Version zero means the current version.
func (s *Service) ExportCSV(ctx context.Context, documentID string, version int) ([]byte, error) {
	list, err := s.List(ctx, documentID, version)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range list {
		user := c.CommenterName
		if user == "" {
			user = c.CommentedBy
		}
		page := "N/A"
		if c.PageNumber != nil {
			page = strconv.Itoa(*c.PageNumber)
		}
		record := []string{
			user,
			page,
			c.Text,
			c.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(c.Version),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
