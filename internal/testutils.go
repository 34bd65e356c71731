package internal

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/server"
	"github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
)

// BuildTestIMAPServer starts an in-memory server with a single user,
// "username"/"password", and an empty INBOX.
func BuildTestIMAPServer(t *testing.T) (*server.Server, string) {
	be := memory.New()
	user, err := be.Login(nil, "username", "password")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mb, err := user.GetMailbox("INBOX")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mb.(*memory.Mailbox).Messages = nil

	s := server.New(&lockedBackend{be: be})
	t.Cleanup(func() { _ = s.Close() })

	s.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	go func() { _ = s.Serve(l) }()

	return s, l.Addr().String()
}

// MakeTestMessage builds a small plain-text RFC 5322 message.
func MakeTestMessage(t *testing.T, messageID string, subject string) []byte {
	hdr := message.Header{}
	hdr.Add("From", "from@example.com")
	hdr.Add("To", "to@example.com")
	hdr.Add("Subject", subject)
	hdr.Add("Date", "Wed, 11 May 2016 14:31:59 +0000")
	hdr.Add("Content-Type", "text/plain; charset=utf-8")
	hdr.Add("Message-ID", messageID)

	msg, err := message.New(hdr, strings.NewReader("Привет!"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	bb := new(bytes.Buffer)
	if err := msg.WriteTo(bb); !assert.NoError(t, err) {
		t.FailNow()
	}

	return bb.Bytes()
}

// AddTestMessage APPENDs a message to the INBOX over its own connection.
// The backend is only ever touched by the server goroutines.
func AddTestMessage(t *testing.T, addr string, body []byte) {
	c, err := client.Dial(addr)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login("username", "password"); !assert.NoError(t, err) {
		t.FailNow()
	}

	if err := c.Append("INBOX", nil, time.Now(), bytes.NewBuffer(body)); !assert.NoError(t, err) {
		t.FailNow()
	}
}
