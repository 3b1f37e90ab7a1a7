package document

import (
	"bytes"
	"strings"
	"testing"

	"legal-assistant/internal/core/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF(t *testing.T) {
	chunks := Split(normalize.Text(strings.Repeat("abcdefghij", 9)), 10, 0).Chunks
	a := Compose(testHeader(), chunks, DefaultLayout())

	out, err := PDFBytes(a)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 2, bytes.Count(out, []byte("/Type /Page\n")))

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(a, &buf))
	assert.NotZero(t, buf.Len())
}
