package apperror

import (
	"errors"
	"fmt"

	"legal-assistant/pkg/apperror/status"
)

// ErrorResponse is the standardized HTTP error payload
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Data      any    `json:"data,omitempty"`
}

// FiberSuccessMessage is the standardized HTTP success payload
type FiberSuccessMessage struct {
	Code       status.SuccessCode `json:"code"`
	Message    string             `json:"message"`
	TrackingID string             `json:"tracking_id"`
	Data       any                `json:"data"`
}

// CodeOf extracts the ErrorCode carried by err, or ErrorCodeInternal.
func CodeOf(err error) status.ErrorCode {
	var coded status.CodedError
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return status.ErrorCodeInternal
}

func formatCode(code status.ErrorCode) string {
	return fmt.Sprintf("AI-%d", code)
}
