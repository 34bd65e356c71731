package internal

import (
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend"
)

// lockedBackend serialises every backend call behind one mutex. The
// memory backend has no locking of its own, and tests run several
// connections against it at once.
type lockedBackend struct {
	mu sync.Mutex
	be backend.Backend
}

func (b *lockedBackend) Login(connInfo *imap.ConnInfo, username, password string) (backend.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, err := b.be.Login(connInfo, username, password)
	if err != nil {
		return nil, err
	}
	return &lockedUser{mu: &b.mu, u: u}, nil
}

type lockedUser struct {
	mu *sync.Mutex
	u  backend.User
}

func (u *lockedUser) wrap(mb backend.Mailbox) backend.Mailbox {
	return &lockedMailbox{mu: u.mu, mb: mb}
}

func (u *lockedUser) Username() string {
	return u.u.Username()
}

func (u *lockedUser) ListMailboxes(subscribed bool) ([]backend.Mailbox, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	mbs, err := u.u.ListMailboxes(subscribed)
	if err != nil {
		return nil, err
	}

	for i := range mbs {
		mbs[i] = u.wrap(mbs[i])
	}
	return mbs, nil
}

func (u *lockedUser) GetMailbox(name string) (backend.Mailbox, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	mb, err := u.u.GetMailbox(name)
	if err != nil {
		return nil, err
	}
	return u.wrap(mb), nil
}

func (u *lockedUser) CreateMailbox(name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.u.CreateMailbox(name)
}

func (u *lockedUser) DeleteMailbox(name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.u.DeleteMailbox(name)
}

func (u *lockedUser) RenameMailbox(existingName, newName string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.u.RenameMailbox(existingName, newName)
}

func (u *lockedUser) Logout() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.u.Logout()
}

type lockedMailbox struct {
	mu *sync.Mutex
	mb backend.Mailbox
}

func (m *lockedMailbox) Name() string {
	return m.mb.Name()
}

func (m *lockedMailbox) Info() (*imap.MailboxInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.Info()
}

func (m *lockedMailbox) Status(items []imap.StatusItem) (*imap.MailboxStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.Status(items)
}

func (m *lockedMailbox) SetSubscribed(subscribed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.SetSubscribed(subscribed)
}

func (m *lockedMailbox) Check() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.Check()
}

// The server drains ch without calling back into the backend.
func (m *lockedMailbox) ListMessages(uid bool, seqset *imap.SeqSet, items []imap.FetchItem, ch chan<- *imap.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.ListMessages(uid, seqset, items, ch)
}

func (m *lockedMailbox) SearchMessages(uid bool, criteria *imap.SearchCriteria) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.SearchMessages(uid, criteria)
}

func (m *lockedMailbox) CreateMessage(flags []string, date time.Time, body imap.Literal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.CreateMessage(flags, date, body)
}

func (m *lockedMailbox) UpdateMessagesFlags(uid bool, seqset *imap.SeqSet, operation imap.FlagsOp, flags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.UpdateMessagesFlags(uid, seqset, operation, flags)
}

func (m *lockedMailbox) CopyMessages(uid bool, seqset *imap.SeqSet, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.CopyMessages(uid, seqset, dest)
}

func (m *lockedMailbox) Expunge() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mb.Expunge()
}
