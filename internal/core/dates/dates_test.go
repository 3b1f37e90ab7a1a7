package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Run("Should extract labelled dates in order", func(t *testing.T) {
		got := Extract("Filing deadline: 2023-12-15, Effective date: 2023-11-01")
		assert.Equal(t, []ImportantDate{
			{Description: "Filing deadline", Date: "2023-12-15"},
			{Description: "Effective date", Date: "2023-11-01"},
		}, got)
	})

	t.Run("Should tolerate spacing and newlines", func(t *testing.T) {
		got := Extract("  Hearing :2024-01-09\n- Closing:\t2024-02-29; Renewal:  2025-06-30")
		assert.Equal(t, []ImportantDate{
			{Description: "Hearing", Date: "2024-01-09"},
			{Description: "Closing", Date: "2024-02-29"},
			{Description: "Renewal", Date: "2025-06-30"},
		}, got)
	})

	t.Run("Should skip impossible dates", func(t *testing.T) {
		got := Extract("Bad: 2023-02-30, Good: 2023-03-01, Month: 2023-13-01")
		assert.Equal(t, []ImportantDate{{Description: "Good", Date: "2023-03-01"}}, got)
	})

	t.Run("Should reject dates that are not exactly YYYY-MM-DD", func(t *testing.T) {
		assert.Empty(t, Extract("Short: 23-12-15, Loose: 2023-1-5, Long: 2023-12-150"))
	})

	t.Run("Should return nothing for empty or unrelated text", func(t *testing.T) {
		assert.Empty(t, Extract(""))
		assert.Empty(t, Extract("no dates here"))
	})
}

func TestImportantDateTime(t *testing.T) {
	tm, err := ImportantDate{Description: "x", Date: "2023-12-15"}.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), tm)
}

func TestCandidate(t *testing.T) {
	_, err := candidate("Label", "2023-02-30", "")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
