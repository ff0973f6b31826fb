package mail

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeHeadersAndBody(t *testing.T) {
	raw := string(compose("noreply@blog.test", Message{To: "reader@example.com", Subject: "Hi", Body: "line1\nline2"}))

	assert.Contains(t, raw, "From: noreply@blog.test\r\n")
	assert.Contains(t, raw, "To: reader@example.com\r\n")
	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline1\r\nline2"))
}

func TestLogMailerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	mailer := NewLogMailer(zerolog.New(&buf))

	err := mailer.Send(context.Background(), Message{To: "reader@example.com", Subject: "Reset", Body: "http://x/reset/1/abc/"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"to":"reader@example.com"`)
	assert.Contains(t, out, "http://x/reset/1/abc/")
}

func TestMailersRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewLogMailer(zerolog.Nop()).Send(ctx, Message{}), context.Canceled)
	assert.ErrorIs(t, NewSMTPMailer("127.0.0.1", "1", "", "", "a@b.c").Send(ctx, Message{To: "x@y.z"}), context.Canceled)
}

// silentSMTPServer accepts connections but never sends the 220 greeting.
func silentSMTPServer(t *testing.T) (host, port string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	accepted := make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		for {
			select {
			case conn := <-accepted:
				conn.Close()
			default:
				return
			}
		}
	})

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func TestSMTPMailerGivesUpOnSilentServer(t *testing.T) {
	host, port := silentSMTPServer(t)
	mailer := NewSMTPMailer(host, port, "", "", "a@b.c").WithTimeout(100 * time.Millisecond)

	start := time.Now()
	err := mailer.Send(context.Background(), Message{To: "x@y.z", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPMailerHonoursContextDeadline(t *testing.T) {
	host, port := silentSMTPServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewSMTPMailer(host, port, "", "", "a@b.c").Send(ctx, Message{To: "x@y.z"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
