package domain

import (
	"strings"
	"time"
)

type ExportFormat string

const (
	FormatText ExportFormat = "text"
	FormatPDF  ExportFormat = "pdf"
	FormatHTML ExportFormat = "html"
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportFormats lists the supported formats.
func ExportFormats() []ExportFormat {
	return []ExportFormat{FormatText, FormatPDF, FormatHTML, FormatCSV, FormatJSON}
}

// ParseExportFormat accepts a format name or a common alias ("txt",
// "report", "document", "tabular", "structured").
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "report":
		return FormatText, nil
	case "pdf", "document":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv", "tabular":
		return FormatCSV, nil
	case "json", "structured":
		return FormatJSON, nil
	}
	return "", &ValidationError{Field: "format", Err: ErrUnsupportedFormat, Message: "export format " + s + " is not supported"}
}

// Extension is the file suffix for the format.
func (f ExportFormat) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// ReportRow is one labelled line of a report.
type ReportRow struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

type ReportSection struct {
	Title string      `json:"title"`
	Rows  []ReportRow `json:"rows"`
}

// Report is a format-neutral rendering of a calculation.
type Report struct {
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Sections    []ReportSection `json:"sections"`
	Notes       []string        `json:"notes,omitempty"`
}

// Artifact is one exported file. Content holds the bytes; Size is their
// length.
type Artifact struct {
	Format      ExportFormat `json:"format"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"contentType"`
	Size        int          `json:"size"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	Content     []byte       `json:"-"`
}
