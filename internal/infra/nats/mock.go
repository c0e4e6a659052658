package nats

import (
	"sync"
)

// Message is a payload captured by MockConn
type Message struct {
	Subject string
	Data    []byte
}

// MockConn records published messages for tests
type MockConn struct {
	mu           sync.RWMutex
	messages     []Message
	publishError error
	closed       bool
}

// NewMockConn creates an empty mock connection
func NewMockConn() *MockConn {
	return &MockConn{}
}

// Publish records the message and returns any configured error
func (m *MockConn) Publish(subject string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishError != nil {
		return m.publishError
	}
	m.messages = append(m.messages, Message{Subject: subject, Data: data})
	return nil
}

// Close marks the connection as closed
func (m *MockConn) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Messages returns a copy of the published messages
func (m *MockConn) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// SetPublishError makes subsequent publishes fail with err
func (m *MockConn) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishError = err
}

// IsClosed reports whether Close was called
func (m *MockConn) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
