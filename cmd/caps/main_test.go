package caps

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
	mock_imap "github.com/vs49688/mailwatch/imap/mocks"
)

func TestPrintCapabilities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &imap.ConnectionConfig{HostPort: "localhost:143"}

	c := mock_imap.NewMockClient(ctrl)
	factory := mock_imap.NewMockFactory(ctrl)

	factory.EXPECT().NewClient(cfg).Return(c, nil)
	c.EXPECT().Capabilities().Return([]string{"AUTH=PLAIN", "IDLE", "IMAP4REV1"}, nil)
	c.EXPECT().Mailbox().Return(&imap.MailboxStatus{Name: "INBOX", Messages: 3})
	c.EXPECT().Logout().Return(nil)

	out := &bytes.Buffer{}
	assert.NoError(t, printCapabilities(factory, cfg, out))
	assert.Equal(t, "AUTH=PLAIN\nIDLE\nIMAP4REV1\n", out.String())
}

func TestPrintCapabilitiesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &imap.ConnectionConfig{HostPort: "localhost:143"}
	failure := &imap.TransportError{Op: "read", Err: errors.New("reset")}

	c := mock_imap.NewMockClient(ctrl)
	factory := mock_imap.NewMockFactory(ctrl)

	factory.EXPECT().NewClient(cfg).Return(c, nil)
	c.EXPECT().Capabilities().Return(nil, failure)
	c.EXPECT().Close().Return(nil)

	err := printCapabilities(factory, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, failure)
}
