package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Source yields the unseen messages of a mailbox.
type Source interface {
	Unseen(ctx context.Context) ([]Email, error)
}

// IMAP is a Source backed by an IMAP server over TLS. Fetching a message
// marks it as seen.
type IMAP struct {
	cfg config.MailConfig
}

// NewIMAP returns an IMAP source for cfg.
func NewIMAP(cfg config.MailConfig) *IMAP {
	return &IMAP{cfg: cfg}
}

// ctxDialer dials with ctx and closes the connection once ctx is done, which
// unblocks any read or write the IMAP client is stuck in.
type ctxDialer struct {
	ctx context.Context
	net.Dialer

	mu   sync.Mutex
	stop []func() bool
}

func (d *ctxDialer) Dial(network, address string) (net.Conn, error) {
	conn, err := d.DialContext(d.ctx, network, address)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.stop = append(d.stop, context.AfterFunc(d.ctx, func() { _ = conn.Close() }))
	d.mu.Unlock()
	return conn, nil
}

func (d *ctxDialer) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, stop := range d.stop {
		stop()
	}
}

// Unseen fetches every unseen message. Cancelling ctx aborts the dial, the
// TLS handshake or a fetch in flight.
func (m *IMAP) Unseen(ctx context.Context) (emails []Email, err error) {
	if m.cfg.Address == "" || m.cfg.Password == "" {
		return nil, errors.New("mailbox: address and password are required")
	}
	log := logger.WithModule(config.ModuleMail)

	dialer := &ctxDialer{ctx: ctx}
	defer dialer.release()
	defer func() {
		if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
	}()

	c, err := client.DialWithDialerTLS(dialer, m.cfg.IMAPAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("mailbox: dial %s: %w", m.cfg.IMAPAddress, err)
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login(m.cfg.Address, m.cfg.Password); err != nil {
		return nil, fmt.Errorf("mailbox: login: %w", err)
	}
	if _, err := c.Select(m.cfg.Mailbox, false); err != nil {
		return nil, fmt.Errorf("mailbox: select %s: %w", m.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("mailbox: search unseen: %w", err)
	}
	log.WithField("count", len(uids)).Info("mailbox: unseen messages")
	if len(uids) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, []imap.FetchItem{imap.FetchUid, section.FetchItem()}, messages)
	}()

	var out []Email
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			out = append(out, Email{UID: msg.Uid, Err: errors.New("mailbox: server returned no body")})
			continue
		}
		e, err := Parse(body)
		e.UID = msg.Uid
		e.Err = err
		if err != nil {
			log.WithField("uid", msg.Uid).Warn(err)
		}
		out = append(out, e)
	}
	if err := <-done; err != nil {
		return out, fmt.Errorf("mailbox: fetch: %w", err)
	}
	return out, nil
}
