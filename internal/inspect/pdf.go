// Package inspect derives lightweight metadata from uploaded files.
package inspect

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shared/util"
)

// Inspector reports page counts for paginated uploads. Only PDF is
// paginated today; every other format counts as unpaginated.
type Inspector struct{}

// PageCount returns the number of pages of a PDF, or 0 when the file
// is not a PDF or cannot be parsed. Parsing failures are logged and
// swallowed; a missing page count only disables page-anchor checks.
func (Inspector) PageCount(data []byte, fileName string) int {
	if !looksLikePDF(data, fileName) {
		return 0
	}

	n, err := pdfPageCount(data)
	if err != nil {
		telemetry.Warn("inspect.pdf_parse_failed", map[string]any{
			"file_name": fileName,
			"error":     err.Error(),
		})
		return 0
	}
	return n
}

func pdfPageCount(data []byte) (n int, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n = 0
			err = errMalformedPDF
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

var errMalformedPDF = malformedPDFError{}

type malformedPDFError struct{}

func (malformedPDFError) Error() string { return "malformed pdf" }

func looksLikePDF(data []byte, fileName string) bool {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return true
	}
	return strings.EqualFold(util.FileExtension(fileName), ".pdf")
}
