package pdfinspect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// minimalPDF builds a one-page PDF with a correct xref table.
func minimalPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")

	xrefAt := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefAt)

	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.pdf")
	if err := os.WriteFile(path, minimalPDF(), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	count, err := New().PageCount(path)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("PageCount() = %d, want 1", count)
	}
}

func TestPageCountRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := New().PageCount(path); err == nil {
		t.Fatalf("expected error for non-PDF bytes")
	}
}

func TestPageCountMissingFile(t *testing.T) {
	if _, err := New().PageCount(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
