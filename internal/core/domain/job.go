package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"

	// StatusUnknown is what the API reports for job ids it has never seen.
	StatusUnknown JobStatus = "unknown"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one analysis run of an uploaded 10-K PDF. Jobs live only in memory
// and are correlated by their backend-assigned id.
type Job struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	PDFPath   string    `json:"pdf_path"`
	Pages     int       `json:"pages"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Result names the two artifacts a completed run leaves in the results
// directory.
type Result struct {
	Narrative string `json:"narrative"`
	Sankey    string `json:"sankey"`
}

// ResultFor derives artifact file names from the uploaded PDF's base name.
func ResultFor(pdfFilename string) Result {
	base := strings.TrimSuffix(filepath.Base(pdfFilename), filepath.Ext(pdfFilename))
	return Result{
		Narrative: base + "_narrative.txt",
		Sankey:    base + "_sankey.html",
	}
}
