package inspect

import "testing"

func TestPageCountNonPDF(t *testing.T) {
	var ins Inspector

	if n := ins.PageCount([]byte("plain text"), "notes.txt"); n != 0 {
		t.Errorf("PageCount(txt) = %d, want 0", n)
	}
	if n := ins.PageCount([]byte{0x50, 0x4b, 0x03, 0x04}, "report.docx"); n != 0 {
		t.Errorf("PageCount(docx) = %d, want 0", n)
	}
}

func TestPageCountMalformedPDF(t *testing.T) {
	var ins Inspector

	// PDF magic with garbage after it must not panic.
	if n := ins.PageCount([]byte("%PDF-1.7 garbage"), "broken.pdf"); n != 0 {
		t.Errorf("PageCount(malformed) = %d, want 0", n)
	}
	// Extension alone triggers a parse attempt.
	if n := ins.PageCount([]byte("not a pdf at all"), "fake.PDF"); n != 0 {
		t.Errorf("PageCount(fake ext) = %d, want 0", n)
	}
}

func TestLooksLikePDF(t *testing.T) {
	if !looksLikePDF([]byte("%PDF-1.4"), "anything.bin") {
		t.Error("magic bytes not detected")
	}
	if !looksLikePDF([]byte("x"), "doc.pdf") {
		t.Error("extension not detected")
	}
	if looksLikePDF([]byte("x"), "doc.txt") {
		t.Error("false positive")
	}
}
