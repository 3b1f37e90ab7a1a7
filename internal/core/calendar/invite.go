// Package calendar turns a date and an event name into an emailed .ics invite.
package calendar

import (
	"context"
	"fmt"
	"time"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"
)

const displayLayout = "2006-01-02 15:04 MST"

// Result reports a sent invite.
type Result struct {
	Event   Event  `json:"-"`
	Message string `json:"message"`
}

// Inviter creates calendar invites and mails them.
type Inviter struct {
	mailer Mailer
	now    func() time.Time
}

// NewInviter returns an Inviter sending through mailer.
func NewInviter(mailer Mailer) *Inviter {
	return &Inviter{mailer: mailer, now: time.Now}
}

// SendInvite parses date (see ParseDate), builds a one-day event named name
// and mails it as an attachment.
func (i *Inviter) SendInvite(ctx context.Context, date, name string) (Result, error) {
	now := i.now()
	start, err := ParseDate(date, now)
	if err != nil {
		return Result{}, err
	}
	ev := NewEvent(name, start)
	when := start.Format(displayLayout)

	msg := Message{
		Subject:        "Calendar Invite: " + name,
		Body:           fmt.Sprintf("Please find attached the calendar invite for %s scheduled for %s", name, when),
		AttachmentName: "invite.ics",
		AttachmentType: "text/calendar; method=REQUEST",
		Attachment:     []byte(ev.ICS(now.UTC())),
	}
	if err := i.mailer.Send(ctx, msg); err != nil {
		return Result{}, err
	}

	logger.WithModule(config.ModuleCalendar).WithFields(logger.Fields{
		"event": name,
		"start": when,
	}).Info("calendar invite sent")
	return Result{
		Event:   ev,
		Message: fmt.Sprintf("Calendar invite sent for %s scheduled for %s", name, when),
	}, nil
}
