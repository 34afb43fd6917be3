package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/export"
)

func sampleAbstract(id int64, status domain.AbstractStatus) domain.AbstractWithOwner {
	return domain.AbstractWithOwner{
		Abstract: domain.Abstract{
			ID:              id,
			AbstractNumber:  "ABST-1-AAAAA",
			Title:           "CAR-T outcomes",
			PresenterName:   "Dr. Rao",
			InstitutionName: "AIIMS",
			Category:        domain.CategoryPoster,
			Content:         "Body",
			Status:          status,
			SubmissionDate:  time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
		},
		Email: "rao@example.org",
	}
}

func TestCSVWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAbstracts([]domain.AbstractWithOwner{
		sampleAbstract(7, domain.StatusPending),
		sampleAbstract(8, domain.StatusApproved),
	}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Columns(), rows[0])

	first := rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "7", first[1])
	assert.Equal(t, "04/03/2025", first[3])
	assert.Equal(t, "rao@example.org", first[5])
	assert.Equal(t, "N/A", first[6])
	assert.Equal(t, "None", first[8])
	assert.Equal(t, "PENDING", first[11])
	assert.Equal(t, "No file", first[13])
	assert.Equal(t, "0 KB", first[14])
	assert.Equal(t, "Not reviewed", first[15])
	assert.Equal(t, "No comments", first[16])

	second := rows[2]
	assert.Equal(t, "2", second[0])
	assert.Equal(t, "APPROVED", second[11])
	assert.Equal(t, "09/03/2025", second[15])
}

func TestRow_FinalFileAndComments(t *testing.T) {
	a := sampleAbstract(3, domain.StatusFinalSubmitted)
	name := "slides.pdf"
	size := int64(2048)
	comments := "Great work"
	a.FinalFileName = &name
	a.FinalFileSize = &size
	a.ReviewerComments = &comments

	row := export.Row(&a, 1)

	assert.Equal(t, "slides.pdf", row[13])
	assert.Equal(t, "2.0 KB", row[14])
	assert.Equal(t, "Great work", row[16])
	assert.Equal(t, "FINAL_SUBMITTED", row[11])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "APBMT 2025", "APBMT_2025"},
		{"special chars", "Review / Round (1)", "Review_Round_1"},
		{"hyphens and underscores preserved", "my-export_2025", "my-export_2025"},
		{"consecutive underscores collapsed", "a___b", "a_b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, export.SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "APBMT_2025_Abstracts_2025-05-01.csv", export.BuildFilename("APBMT 2025", "", "csv", at))
	assert.Equal(t, "Abstracts_2025-05-01_approved.xlsx", export.BuildFilename("", domain.StatusApproved, "xlsx", at))
}
