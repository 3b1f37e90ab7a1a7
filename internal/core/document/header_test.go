package document

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentHeader(t *testing.T) {
	upload := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	h := DocumentHeader(Metadata{
		DocType:        "NDA",
		Parties:        "Acme “Corp”, Beta LLC",
		Jurisdiction:   "Delaware",
		ImportantDates: "Effective: 2024-03-01",
		Summary:        "Mutual non–disclosure",
		UploadTime:     upload,
	})

	lines := strings.Split(h.Text().String(), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "LEGAL DOCUMENT METADATA:", lines[0])
	assert.Equal(t, "Document Type: NDA", lines[1])
	assert.Equal(t, `Parties: Acme "Corp", Beta LLC`, lines[2])
	assert.Equal(t, "Summary: Mutual non-disclosure", lines[5])
	assert.Equal(t, "Upload Time: 2024-03-01T09:30:00Z", lines[6])
	assert.Equal(t, strings.Repeat("=", 60), lines[7])

	fields := h.Fields()
	fields[0].Value = "changed"
	assert.Equal(t, "NDA", h.Fields()[0].Value)
}

func TestEmailHeader(t *testing.T) {
	long := strings.Repeat("s", 70)
	h := EmailHeader("alice@example.com", "bob@example.com", long, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))

	lines := strings.Split(h.Text().String(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "From: alice@example.com...", lines[0])
	assert.Equal(t, "Subject: "+strings.Repeat("s", 50)+"...", lines[2])
	assert.Equal(t, "Date: 2024-05-06 07:08:09", lines[3])
	assert.Equal(t, strings.Repeat("=", 50), lines[4])
}
