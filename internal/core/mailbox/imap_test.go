package mailbox

import (
	"context"
	"net"
	"testing"
	"time"

	"legal-assistant/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentServer accepts connections and never answers.
func silentServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		<-done
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestIMAPUnseen(t *testing.T) {
	cfg := config.MailConfig{Address: "legal@example.com", Password: "secret", Mailbox: "INBOX"}

	t.Run("Should require credentials", func(t *testing.T) {
		_, err := NewIMAP(config.MailConfig{}).Unseen(context.Background())
		assert.Error(t, err)
	})

	t.Run("Should give up on a stalled server when the context expires", func(t *testing.T) {
		cfg := cfg
		cfg.IMAPAddress = silentServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := NewIMAP(cfg).Unseen(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("Should not dial with a cancelled context", func(t *testing.T) {
		cfg := cfg
		cfg.IMAPAddress = silentServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewIMAP(cfg).Unseen(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
