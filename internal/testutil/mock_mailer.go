package testutil

import (
	"errors"
	"sync"
)

// SentEmail records one outbound mail captured by MockMailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
	Link    string
}

// MockMailer implements mailer.Mailer in memory: the test outbox
// replaces a real SMTP server, and Fail simulates dispatch failures.
type MockMailer struct {
	mu     sync.Mutex
	Outbox []SentEmail
	Fail   bool
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return errors.New("smtp: dial failed")
	}

	m.Outbox = append(m.Outbox, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MockMailer) SendActivationEmail(to, username, activationLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return errors.New("smtp: dial failed")
	}

	m.Outbox = append(m.Outbox, SentEmail{
		To:      to,
		Subject: "Activa tu cuenta de usuario",
		Link:    activationLink,
	})
	return nil
}

// LastEmail returns the most recent captured mail, or nil.
func (m *MockMailer) LastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Outbox) == 0 {
		return nil
	}
	return &m.Outbox[len(m.Outbox)-1]
}

// Reset clears the outbox between tests.
func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outbox = nil
	m.Fail = false
}
