package apperror

import (
	"errors"
	"fmt"
	"testing"

	"legal-assistant/pkg/apperror/status"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("Should unwrap coded errors", func(t *testing.T) {
		err := fmt.Errorf("ingest: %w", status.New(status.IngestSinkFailed, errors.New("boom")))
		assert.Equal(t, status.IngestSinkFailed, CodeOf(err))
		assert.Equal(t, "AI-1004", formatCode(CodeOf(err)))
	})

	t.Run("Should fall back to internal code", func(t *testing.T) {
		assert.Equal(t, status.ErrorCodeInternal, CodeOf(errors.New("plain")))
	})

	t.Run("Should classify client codes", func(t *testing.T) {
		assert.True(t, status.InvalidMetadata.IsClient())
		assert.False(t, status.IngestInternal.IsClient())
		assert.Nil(t, status.New(status.InvalidDate, nil))
	})
}
