// Package mailbox reads unseen messages from an IMAP inbox.
package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"legal-assistant/internal/core/source"

	"github.com/emersion/go-message/mail"
	"github.com/gabriel-vasile/mimetype"

	_ "github.com/emersion/go-message/charset"
)

// NoContent is the body of an email without text or HTML parts.
const NoContent = "No content"

// IndexableExtensions are the attachment types forwarded to the sink.
var IndexableExtensions = []string{".pdf", ".txt", ".csv", ".docx"}

// Attachment is a file carried by an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Indexable reports whether the attachment has one of IndexableExtensions.
func (a Attachment) Indexable() bool {
	return slices.Contains(IndexableExtensions, strings.ToLower(filepath.Ext(a.Filename)))
}

// Email is a parsed message. Err is set when the message could not be
// parsed; the other fields are then best effort.
type Email struct {
	UID         uint32
	From        string
	To          string
	Subject     string
	Date        time.Time
	Text        string
	HTML        string
	Attachments []Attachment
	Err         error
}

// Body returns the text to compose: converted HTML when present, else the
// plain text part, else NoContent.
func (e Email) Body() string {
	if strings.TrimSpace(e.HTML) != "" {
		if text, err := source.HTMLText(e.HTML); err == nil && text != "" {
			return text
		}
	}
	if strings.TrimSpace(e.Text) != "" {
		return e.Text
	}
	return NoContent
}

// IndexableAttachments returns the attachments worth ingesting.
func (e Email) IndexableAttachments() []Attachment {
	var out []Attachment
	for _, a := range e.Attachments {
		if a.Indexable() {
			out = append(out, a)
		}
	}
	return out
}

// Parse reads an RFC 5322 message.
func Parse(r io.Reader) (Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return Email{}, fmt.Errorf("mailbox: read message: %w", err)
	}
	defer mr.Close()

	var e Email
	if from, err := mr.Header.AddressList("From"); err == nil {
		e.From = joinAddresses(from)
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		e.To = joinAddresses(to)
	}
	e.Subject, _ = mr.Header.Subject()
	e.Date, _ = mr.Header.Date()

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e, fmt.Errorf("mailbox: read part: %w", err)
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return e, fmt.Errorf("mailbox: read part body: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			switch ct {
			case "text/html":
				if e.HTML == "" {
					e.HTML = string(body)
				}
			case "text/plain", "":
				if e.Text == "" {
					e.Text = string(body)
				}
			}
		case *mail.AttachmentHeader:
			name, _ := h.Filename()
			e.Attachments = append(e.Attachments, Attachment{
				Filename:    name,
				ContentType: contentType(h, body),
				Data:        body,
			})
		}
	}
	return e, nil
}

func contentType(h *mail.AttachmentHeader, body []byte) string {
	if ct, _, err := h.ContentType(); err == nil && ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mimetype.Detect(body).String()
}

func joinAddresses(list []*mail.Address) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, a.Address)
	}
	return strings.Join(parts, ", ")
}

// ParseBytes is Parse over an in-memory message.
func ParseBytes(raw []byte) (Email, error) {
	return Parse(bytes.NewReader(raw))
}
