package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: document ingestion
//   2000-2999: mailbox sync
//   3000-3999: knowledge extraction
//   4000-4999: calendar invites

const (
	BadRequestBase    ErrorCode = 0
	InternalErrorBase ErrorCode = 1000
)

// Client/validation errors
const (
	InvalidRequestBody ErrorCode = BadRequestBase + iota // 0
	MissingParams                                        // 1
	InvalidMetadata                                      // 2
	InvalidDate                                          // 3
	UnsupportedFile                                      // 4
	DocumentNotFound                                     // 5
)

// Document ingestion internal errors
const (
	IngestInternal       ErrorCode = InternalErrorBase + iota // 1000
	IngestExtractFailed                                       // 1001
	IngestRenderFailed                                        // 1002
	IngestArchiveFailed                                       // 1003
	IngestSinkFailed                                          // 1004
	IngestPersistFailed                                       // 1005
	IngestSinkIncomplete                                      // 1006
)

// Mailbox sync internal errors
const (
	MailboxInternal    ErrorCode = 2000 + iota // 2000
	MailboxFetchFailed                         // 2001
)

// Knowledge extraction internal errors
const (
	KnowledgeInternal  ErrorCode = 3000 + iota // 3000
	KnowledgeLLMFailed                         // 3001
)

// Calendar internal errors
const (
	CalendarInternal   ErrorCode = 4000 + iota // 4000
	CalendarSendFailed                         // 4001
)

// Deprecated: prefer domain-specific internal codes above
const (
	ErrorCodeInternal ErrorCode = 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}

// IsClient reports whether code belongs to the client/validation range.
func (c ErrorCode) IsClient() bool {
	return c >= BadRequestBase && c < InternalErrorBase
}
