package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// Event is a single calendar entry.
type Event struct {
	Name        string
	Start       time.Time
	End         time.Time
	Description string
}

// NewEvent returns a one-day event starting at start.
func NewEvent(name string, start time.Time) Event {
	return Event{
		Name:        name,
		Start:       start,
		End:         start.Add(24 * time.Hour),
		Description: "Calendar invite for " + name,
	}
}

// ICS serializes the event as an iCalendar request.
func (e Event) ICS(stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//legal-assistant//calendar//EN")

	ev := cal.AddEvent(uuid.NewString())
	ev.SetCreatedTime(stamp)
	ev.SetDtStampTime(stamp)
	ev.SetStartAt(e.Start)
	ev.SetEndAt(e.End)
	ev.SetSummary(e.Name)
	if e.Description != "" {
		ev.SetDescription(e.Description)
	}
	return cal.Serialize()
}
