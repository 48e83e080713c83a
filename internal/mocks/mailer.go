package mocks

import (
	"context"
	"sync"
)

// SentEmail is one message recorded by MockMailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer implements notify.Mailer for testing and records every message
// it accepts.
type MockMailer struct {
	// SendFn allows test cases to mock the Send behavior. A message is only
	// recorded when it returns nil.
	SendFn func(ctx context.Context, to, subject, body string) error

	// Err is returned by Send when SendFn is nil.
	Err error

	mu   sync.Mutex
	sent []SentEmail
}

// Send implements the notify.Mailer interface
func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	var err error
	if m.SendFn != nil {
		err = m.SendFn(ctx, to, subject, body)
	} else {
		err = m.Err
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.sent...)
}

// MockLocker implements notify.Locker for testing.
type MockLocker struct {
	TryLockFn func(ctx context.Context, key string) (func(), bool, error)

	mu       sync.Mutex
	Keys     []string
	Released int
}

// TryLock implements the notify.Locker interface. Without TryLockFn every
// lease is granted.
func (m *MockLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	m.mu.Lock()
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()

	if m.TryLockFn != nil {
		return m.TryLockFn(ctx, key)
	}
	return func() {
		m.mu.Lock()
		m.Released++
		m.mu.Unlock()
	}, true, nil
}
