package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-07-04", time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)},
		{"2024-07-04T09:30:00Z", time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)},
		{"2024-07-04T09:30", time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)},
		{"2024-07-04 09:30:15", time.Date(2024, 7, 4, 9, 30, 15, 0, time.UTC)},
		{"unknown+48", fixedNow.Add(48 * time.Hour)},
		{"unknown+0", fixedNow},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in, fixedNow)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	t.Run("Should keep an explicit offset", func(t *testing.T) {
		got, err := ParseDate("2024-07-04T09:30:00+02:00", fixedNow)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 7, 4, 7, 30, 0, 0, time.UTC).Equal(got))
	})

	t.Run("Should reject a bad offset", func(t *testing.T) {
		_, err := ParseDate("unknown+soon", fixedNow)
		assert.ErrorIs(t, err, ErrInvalidOffset)
	})

	t.Run("Should reject free text", func(t *testing.T) {
		_, err := ParseDate("next tuesday", fixedNow)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestEventICS(t *testing.T) {
	ev := NewEvent("Hearing", time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, ev.Start.Add(24*time.Hour), ev.End)

	out := ev.ICS(fixedNow)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:REQUEST")
	assert.Contains(t, out, "SUMMARY:Hearing")
	assert.Contains(t, out, "DTSTART:20240704T090000Z")
	assert.Contains(t, out, "DTEND:20240705T090000Z")
	assert.Contains(t, out, "DESCRIPTION:Calendar invite for Hearing")
}

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestSendInvite(t *testing.T) {
	t.Run("Should mail the invite", func(t *testing.T) {
		m := &fakeMailer{}
		inv := NewInviter(m)
		inv.now = func() time.Time { return fixedNow }

		res, err := inv.SendInvite(context.Background(), "unknown+24", "Deposition")
		require.NoError(t, err)
		assert.Equal(t, "Calendar invite sent for Deposition scheduled for 2024-06-02 12:00 UTC", res.Message)

		require.Len(t, m.sent, 1)
		assert.Equal(t, "Calendar Invite: Deposition", m.sent[0].Subject)
		assert.True(t, strings.HasSuffix(m.sent[0].AttachmentName, ".ics"))
		assert.Contains(t, string(m.sent[0].Attachment), "SUMMARY:Deposition")
	})

	t.Run("Should not send for a bad date", func(t *testing.T) {
		m := &fakeMailer{}
		_, err := NewInviter(m).SendInvite(context.Background(), "whenever", "x")
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Empty(t, m.sent)
	})

	t.Run("Should surface mail errors", func(t *testing.T) {
		boom := errors.New("smtp down")
		_, err := NewInviter(&fakeMailer{err: boom}).SendInvite(context.Background(), "2024-07-04", "x")
		assert.ErrorIs(t, err, boom)
	})
}
