package document

import (
	"strings"
	"time"

	"legal-assistant/internal/core/normalize"
)

// Field is one "Key: Value" line of a header.
type Field struct {
	Key   string
	Value string
}

// Header is the provenance block printed at the top of an artifact and again
// after every part, so that any part pulled out of the artifact on its own
// still says where it came from.
type Header struct {
	fields []Field
	text   normalize.Text
}

// NewHeader builds a header from an optional title line, the fields and a
// closing rule. Everything is sanitized here; the header never changes after.
func NewHeader(title string, rule string, fields ...Field) Header {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	clean := make([]Field, 0, len(fields))
	for _, f := range fields {
		f = Field{Key: normalize.Sanitize(f.Key).String(), Value: normalize.Sanitize(f.Value).String()}
		clean = append(clean, f)
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	b.WriteString(rule)
	return Header{fields: clean, text: normalize.Sanitize(strings.TrimSpace(b.String()))}
}

// Text returns the rendered header block.
func (h Header) Text() normalize.Text { return h.text }

// Fields returns a copy of the sanitized fields.
func (h Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// Metadata describes an uploaded legal document. DocType and Parties are
// mandatory.
type Metadata struct {
	DocType        string    `json:"doc_type" validate:"required"`
	Parties        string    `json:"parties" validate:"required"`
	Jurisdiction   string    `json:"jurisdiction"`
	ImportantDates string    `json:"important_dates"`
	Summary        string    `json:"summary"`
	UploadTime     time.Time `json:"upload_time"`
}

// DocTypes lists the accepted values of Metadata.DocType.
var DocTypes = []string{"Contract", "NDA", "Court Filing", "Correspondence", "Agreement", "Other"}

// DocumentHeader is the header of an uploaded legal document.
func DocumentHeader(meta Metadata) Header {
	return NewHeader("LEGAL DOCUMENT METADATA:", strings.Repeat("=", 60),
		Field{Key: "Document Type", Value: meta.DocType},
		Field{Key: "Parties", Value: meta.Parties},
		Field{Key: "Jurisdiction", Value: meta.Jurisdiction},
		Field{Key: "Important Dates", Value: meta.ImportantDates},
		Field{Key: "Summary", Value: meta.Summary},
		Field{Key: "Upload Time", Value: meta.UploadTime.Format(time.RFC3339)},
	)
}

const emailFieldLimit = 50

// EmailHeader is the header of a fetched email. Addresses and subject are cut
// to 50 characters so the block stays short.
func EmailHeader(from, to, subject string, date time.Time) Header {
	return NewHeader("", strings.Repeat("=", emailFieldLimit),
		Field{Key: "From", Value: clip(from)},
		Field{Key: "To", Value: clip(to)},
		Field{Key: "Subject", Value: clip(subject)},
		Field{Key: "Date", Value: date.Format("2006-01-02 15:04:05")},
	)
}

func clip(s string) string {
	t := normalize.Sanitize(s).String()
	if len(t) > emailFieldLimit {
		t = t[:emailFieldLimit]
	}
	return t + "..."
}
