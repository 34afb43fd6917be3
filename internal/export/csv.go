package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"abstractdesk/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by CSV and XLSX exports.
var columns = []string{
	"S.No",
	"Abstract ID",
	"Abstract Number",
	"Submission Date",
	"Presenter Name",
	"Email",
	"Phone",
	"Abstract Title",
	"Co-Authors",
	"Institution",
	"Presentation Type",
	"Status",
	"Registration ID",
	"File Name",
	"File Size",
	"Review Date",
	"Reviewer Comments",
	"Abstract Content",
}

// Columns returns a copy of the export header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// CSVWriter wraps csv.Writer for exporting abstracts.
type CSVWriter struct {
	csv  *csv.Writer
	rows int
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAbstracts writes one row per abstract, numbering rows across calls.
func (w *CSVWriter) WriteAbstracts(abstracts []domain.AbstractWithOwner) error {
	for i := range abstracts {
		w.rows++
		if err := w.csv.Write(Row(&abstracts[i], w.rows)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// Row converts an abstract to its export cells. serial is the 1-based row number.
func Row(a *domain.AbstractWithOwner, serial int) []string {
	row := make([]string, len(columns))
	row[0] = fmt.Sprint(serial)
	row[1] = fmt.Sprint(a.ID)
	row[2] = a.AbstractNumber
	row[3] = formatDate(a.SubmissionDate)
	row[4] = a.PresenterName
	row[5] = orDefault(a.Email, "N/A")
	row[6] = orDefault(a.Phone, "N/A")
	row[7] = a.Title
	row[8] = orDefault(a.CoAuthors, "None")
	row[9] = a.InstitutionName
	row[10] = string(a.Category)
	row[11] = strings.ToUpper(string(a.Status))
	row[12] = orDefault(a.RegistrationID, "N/A")
	row[13] = "No file"
	if a.FinalFileName != nil && *a.FinalFileName != "" {
		row[13] = *a.FinalFileName
	}
	row[14] = formatSize(a.FinalFileSize)
	row[15] = "Not reviewed"
	if a.Status != domain.StatusPending {
		row[15] = formatDate(a.UpdatedAt)
	}
	row[16] = "No comments"
	if a.ReviewerComments != nil && *a.ReviewerComments != "" {
		row[16] = *a.ReviewerComments
	}
	row[17] = a.Content
	return row
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatSize(size *int64) string {
	if size == nil || *size <= 0 {
		return "0 KB"
	}
	return fmt.Sprintf("%.1f KB", float64(*size)/1024)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces unsafe characters with _, collapses runs of
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {prefix}_Abstracts_{YYYY-MM-DD}[_{status}].{ext}.
func BuildFilename(prefix string, status domain.AbstractStatus, ext string, at time.Time) string {
	name := "Abstracts"
	if p := SanitizeFilename(prefix); p != "" {
		name = p + "_Abstracts"
	}
	name += "_" + at.Format("2006-01-02")
	if status != "" {
		name += "_" + SanitizeFilename(string(status))
	}
	return name + "." + ext
}
